package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/admin-console/internal/console"
	rl "github.com/rogerio-castellano/admin-console/internal/http/rate_limiter"
	"github.com/rogerio-castellano/admin-console/internal/models"
	"github.com/rogerio-castellano/admin-console/internal/session"
	"github.com/rs/zerolog"
)

// SessionCookie names the cookie carrying the browser session id.
const SessionCookie = "console_sid"

type contextKey string

const (
	sidKey       = contextKey("sid")
	storeKey     = contextKey("session_store")
	workspaceKey = contextKey("workspace")
)

// Deps wires a Server.
type Deps struct {
	Sessions   *session.Registry
	Workspaces *console.Registry
	// Limiter throttles POST /login per client address. Nil disables it.
	Limiter      *rl.Limiter
	SecureCookie bool
	Logger       zerolog.Logger
}

// Server serves the console: navigation, session and screen endpoints.
type Server struct {
	sessions     *session.Registry
	workspaces   *console.Registry
	limiter      *rl.Limiter
	secureCookie bool
	log          zerolog.Logger
	screens      map[string]screenAPI
}

func NewServer(d Deps) *Server {
	return &Server{
		sessions:     d.Sessions,
		workspaces:   d.Workspaces,
		limiter:      d.Limiter,
		secureCookie: d.SecureCookie,
		log:          d.Logger,
		screens: map[string]screenAPI{
			"personas": screenHandler[models.Person]{
				name: "personas",
				pick: func(w *console.Workspace) *console.Screen[models.Person] { return w.People },
			},
			"productos": screenHandler[models.Product]{
				name: "productos",
				pick: func(w *console.Workspace) *console.Screen[models.Product] { return w.Products },
			},
			"usuarios": screenHandler[models.User]{
				name: "usuarios",
				pick: func(w *console.Workspace) *console.Screen[models.User] { return w.Users },
			},
		},
	}
}

// Session resolves the browser session from its cookie, issuing a new id
// when the cookie is missing or malformed.
func (s *Server) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		store, err := s.sessions.Get(r.Context(), sid)
		if err != nil {
			s.log.Error().Err(err).Msg("opening session")
			writeError(w, http.StatusInternalServerError, "could not open session")
			return
		}

		ctx := context.WithValue(r.Context(), sidKey, sid)
		ctx = context.WithValue(ctx, storeKey, store)
		ctx = context.WithValue(ctx, workspaceKey, s.workspaces.Get(sid))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLogin lets the request through only for a logged-in session.
// Navigation is redirected to /login; API calls get 401. No backend call is
// made.
func (s *Server) RequireLogin(api bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store := SessionStore(r); store != nil && store.LoggedIn() {
				next.ServeHTTP(w, r)
				return
			}
			if api {
				writeError(w, http.StatusUnauthorized, "login required")
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		})
	}
}

func SessionID(r *http.Request) string {
	sid, _ := r.Context().Value(sidKey).(string)
	return sid
}

func SessionStore(r *http.Request) *session.Store {
	store, _ := r.Context().Value(storeKey).(*session.Store)
	return store
}

func workspace(r *http.Request) *console.Workspace {
	ws, _ := r.Context().Value(workspaceKey).(*console.Workspace)
	return ws
}
