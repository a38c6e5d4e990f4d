package audit

import (
	"net/http"

	"github.com/AttendFlow/AF-Backend/internal/auth"
	"github.com/AttendFlow/AF-Backend/internal/middleware"
	"github.com/AttendFlow/AF-Backend/internal/store"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{Store: h.Store}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.RoleMiddleware(sessionFetcher, store.RoleSuperAdmin))
		r.Get("/", h.ListHandler)
	})

	return r
}
