package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flipdeck/internal/api/middleware"
)

// RouterDeps are the handlers and middleware mounted by NewRouter.
type RouterDeps struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Sets     *SetHandler
	Sessions *SessionHandler
	Progress *ProgressHandler
	AuthMW   *middleware.AuthMiddleware
	Logger   *slog.Logger
}

// NewRouter builds the HTTP routes of the server.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(deps.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil && deps.Logger != nil {
			deps.Logger.Error("failed to write health check response", "error", err)
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", deps.Auth.Register)
		r.Post("/auth/login", deps.Auth.Login)
		r.Post("/auth/refresh", deps.Auth.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW.Authenticate)

			r.Get("/me", deps.Users.GetMe)
			r.Put("/me", deps.Users.UpdateMe)

			r.Get("/sets", deps.Sets.ListSets)
			r.Post("/sets", deps.Sets.CreateSet)
			r.Post("/sets/import", deps.Sets.ImportSet)
			r.Route("/sets/{id}", func(r chi.Router) {
				r.Get("/", deps.Sets.GetSet)
				r.Put("/", deps.Sets.UpdateSet)
				r.Delete("/", deps.Sets.DeleteSet)
				r.Post("/cards", deps.Sets.AddCards)
				r.Put("/cards/{cardID}", deps.Sets.UpdateCard)
				r.Delete("/cards/{cardID}", deps.Sets.DeleteCard)
				r.Post("/favorite", deps.Sets.Favorite)
				r.Delete("/favorite", deps.Sets.Unfavorite)
				r.Get("/export", deps.Sets.ExportSet)
				r.Post("/study", deps.Sessions.StartStudy)
				r.Post("/match", deps.Sessions.StartMatch)
			})

			r.Route("/sessions/{sid}", func(r chi.Router) {
				r.Get("/", deps.Sessions.GetSession)
				r.Delete("/", deps.Sessions.CloseSession)
				r.Post("/study/{action}", deps.Sessions.StudyAction)
				r.Post("/match/select", deps.Sessions.MatchSelect)
				r.Post("/match/retry", deps.Sessions.MatchRetry)
			})

			r.Get("/progress", deps.Progress.ListProgress)
		})
	})

	return r
}
