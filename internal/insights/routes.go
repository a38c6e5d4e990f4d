package insights

import (
	"net/http"

	"github.com/AttendFlow/AF-Backend/internal/auth"
	"github.com/AttendFlow/AF-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{Store: h.Store}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Post("/query", h.QueryHandler)
	})

	return r
}
