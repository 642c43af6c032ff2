package handlers

import (
	"github.com/rogerio-castellano/admin-console/internal/form"
	"github.com/rogerio-castellano/admin-console/internal/listview"
	"github.com/rogerio-castellano/admin-console/internal/models"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type ValidationErrorResponse struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginModel struct {
	Fields   []string `json:"fields"`
	LoggedIn bool     `json:"loggedIn"`
}

type LoginResult struct {
	Redirect    string       `json:"redirect"`
	CurrentUser *models.User `json:"currentUser"`
}

type Link struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

type ShellResponse struct {
	LoggedIn    bool         `json:"loggedIn"`
	CurrentUser *models.User `json:"currentUser"`
	IsAdmin     bool         `json:"isAdmin"`
	ShowLogout  bool         `json:"showLogout"`
	Links       []Link       `json:"links"`
}

// ScreenResponse is the state of a list screen after an action.
type ScreenResponse struct {
	Screen        string                  `json:"screen"`
	Page          any                     `json:"page"`
	Loading       bool                    `json:"loading"`
	Notifications []listview.Notification `json:"notifications"`
}

// DialogResponse is the state of a dialog after an action.
type DialogResponse struct {
	Detail        string                  `json:"detail,omitempty"`
	Outcome       form.Outcome            `json:"outcome"`
	Dialog        *form.Model             `json:"dialog,omitempty"`
	Notifications []listview.Notification `json:"notifications"`
}

type AboutItem struct {
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
}

type LocationResponse struct {
	ID          models.ID           `json:"id"`
	Nombre      string              `json:"nombre"`
	Coordenadas *models.Coordinates `json:"coordenadas"`
}
