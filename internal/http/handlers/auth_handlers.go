package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/admin-console/internal/session"
)

// Login messages shown by the login screen.
const (
	MsgBadCredentials = "Usuario o contraseña incorrectos"
	MsgTooManyLogins  = "Demasiados intentos, intente nuevamente en unos segundos"
)

// LoginPageHandler godoc
// @Summary Login screen model
// @Tags auth
// @Produce json
// @Success 200 {object} LoginModel
// @Router /login [get]
func (s *Server) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	store := SessionStore(r)
	respond(w, http.StatusOK, LoginModel{
		Fields:   []string{"username", "password"},
		LoggedIn: store != nil && store.LoggedIn(),
	})
}

// LoginHandler godoc
// @Summary Log in against the user collection
// @Description Succeeds when exactly one active user matches the credentials.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow(clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, MsgTooManyLogins)
		return
	}

	values, err := readValues(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	creds := UserLogin{Username: values.String("username")}
	creds.Password, _ = values["password"].(string)

	fields := map[string]string{}
	if creds.Username == "" {
		fields["username"] = "Este campo es requerido"
	}
	if strings.TrimSpace(creds.Password) == "" {
		fields["password"] = "Este campo es requerido"
	}
	if len(fields) > 0 {
		writeValidation(w, fields)
		return
	}

	store := SessionStore(r)
	if !store.Login(r.Context(), creds.Username, creds.Password) {
		writeError(w, http.StatusUnauthorized, MsgBadCredentials)
		return
	}

	respond(w, http.StatusOK, LoginResult{Redirect: "/personas", CurrentUser: store.CurrentUser()})
}

// LogoutHandler godoc
// @Summary Log out and drop the screen state of the session
// @Tags auth
// @Success 303
// @Router /logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := SessionStore(r).Logout(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("clearing session")
	}
	sid := SessionID(r)
	s.workspaces.Forget(sid)
	s.sessions.Forget(sid)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// SessionEventsHandler godoc
// @Summary Stream session state changes
// @Description Server-sent events; the current state is sent first.
// @Tags auth
// @Produce text/event-stream
// @Success 200
// @Router /api/session/events [get]
func (s *Server) SessionEventsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	store := SessionStore(r)
	states, cancel := store.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	send := func(st session.State) bool {
		body, _ := json.Marshal(shell(st))
		if _, err := fmt.Fprintf(w, "event: session\ndata: %s\n\n", body); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(store.State()) {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case st, ok := <-states:
			if !ok || !send(st) {
				return
			}
		}
	}
}
