package auth

import (
	"net/http"

	"github.com/AttendFlow/AF-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{Store: h.Store}

	r.Get("/users", h.ListUsersHandler)
	r.Post("/login", h.LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Post("/logout", h.LogoutHandler)
		r.Get("/me", h.MeHandler)
	})

	return r
}
