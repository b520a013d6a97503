package records

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.With(httprate.Limit(30, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).Post("/", h.Create)
	r.Get("/{recordID}", h.Get)
	r.Put("/{recordID}", h.Update)
	r.Delete("/{recordID}", h.Delete)
}
