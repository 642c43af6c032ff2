package handlers

import (
	"net/http"
	"strings"

	"github.com/rogerio-castellano/admin-console/internal/session"
)

func shell(st session.State) ShellResponse {
	resp := ShellResponse{Links: []Link{}}
	if !st.LoggedIn {
		return resp
	}

	resp.LoggedIn = true
	resp.ShowLogout = true
	resp.CurrentUser = st.CurrentUser
	resp.IsAdmin = st.CurrentUser != nil && st.CurrentUser.IsAdmin()
	resp.Links = append(resp.Links,
		Link{Path: "/personas", Label: "Personas"},
		Link{Path: "/productos", Label: "Productos"},
	)
	if resp.IsAdmin {
		resp.Links = append(resp.Links, Link{Path: "/usuarios", Label: "Usuarios"})
	}
	resp.Links = append(resp.Links, Link{Path: "/acerca-de", Label: "Acerca de"})
	return resp
}

// ShellHandler godoc
// @Summary Header state: login flag, current user and navigation links
// @Tags shell
// @Produce json
// @Success 200 {object} ShellResponse
// @Router /api/shell [get]
func (s *Server) ShellHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, shell(SessionStore(r).State()))
}

var about = []AboutItem{
	{
		Titulo:      "Nuestra Historia",
		Descripcion: "Somos una institución académica con más de dos décadas de experiencia dedicada a brindar una formación integral y de calidad.",
	},
	{
		Titulo:      "Misión",
		Descripcion: "Formar profesionales íntegros, éticos y capacitados para los desafíos del futuro.",
	},
	{
		Titulo:      "Visión",
		Descripcion: "Consolidarnos como una institución líder en educación superior, reconocida por su innovación y calidad académica.",
	},
}

// AboutHandler godoc
// @Summary Static "about" content
// @Tags shell
// @Produce json
// @Success 200 {array} AboutItem
// @Router /acerca-de [get]
func (s *Server) AboutHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, about)
}

// NotificationsHandler godoc
// @Summary Drain the pending notifications of the session
// @Tags shell
// @Produce json
// @Success 200 {array} listview.Notification
// @Router /api/notifications [get]
func (s *Server) NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, workspace(r).Notifier.Drain())
}

func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/personas", http.StatusFound)
}

// NotFoundHandler sends unknown navigation to the login screen. Unknown API
// paths are plain 404s.
func (s *Server) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
