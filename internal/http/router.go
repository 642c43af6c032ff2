package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/admin-console/internal/http/handlers"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// RouterOptions configure the shared middleware stack.
type RouterOptions struct {
	CORSOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Only set it behind a proxy that overwrites those headers.
	TrustProxy bool
	Logger     zerolog.Logger
}

func baseRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(CORS(opts.CORSOrigins))
	}
	return r
}

// NewRouter serves the console. Everything but /login, /logout, the shell
// and the docs sits behind the login guard.
func NewRouter(s *handlers.Server, opts RouterOptions) http.Handler {
	r := baseRouter(opts)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.Session)

		r.Get("/login", s.LoginPageHandler)
		r.Post("/login", s.LoginHandler)
		r.Get("/logout", s.LogoutHandler)
		r.Post("/logout", s.LogoutHandler)
		r.Get("/api/shell", s.ShellHandler)
		r.Get("/api/session/events", s.SessionEventsHandler)
		r.Get("/", s.IndexHandler)

		// navigation
		r.Group(func(r chi.Router) {
			r.Use(s.RequireLogin(false))
			r.Get("/acerca-de", s.AboutHandler)
			r.Get("/{screen}", s.ScreenPageHandler)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(s.RequireLogin(true))
			r.Get("/notifications", s.NotificationsHandler)
			r.Post("/usuarios/{id}/toggle", s.ToggleUserHandler)
			r.Get("/personas/{id}/mapa", s.LocateHandler)

			r.Route("/{screen}", func(r chi.Router) {
				r.Get("/", s.ListHandler)
				r.Post("/", s.CreateHandler)
				r.Post("/reload", s.ReloadHandler)
				r.Get("/form", s.OpenFormHandler)
				r.Post("/form", s.SubmitFormHandler)
				r.Delete("/form", s.CancelFormHandler)
				r.Put("/{id}", s.UpdateHandler)
				r.Delete("/{id}", s.DeleteHandler)
			})
		})

		r.NotFound(s.NotFoundHandler)
	})

	return r
}

// NewRecordStoreRouter serves the REST backend.
func NewRecordStoreRouter(s *handlers.RecordStore, opts RouterOptions) http.Handler {
	r := baseRouter(opts)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.InstanceName("recordstore")))
	r.Get("/_stats", s.StatsHandler)

	r.Route("/{collection}", func(r chi.Router) {
		r.Get("/", s.ListRecordsHandler)
		r.Post("/", s.CreateRecordHandler)
		r.Post("/import", s.ImportRecordsHandler)
		r.Get("/{id}", s.GetRecordHandler)
		r.Put("/{id}", s.ReplaceRecordHandler)
		r.Patch("/{id}", s.MergeRecordHandler)
		r.Delete("/{id}", s.DeleteRecordHandler)
	})
	return r
}
