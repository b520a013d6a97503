package ledgers

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
}

// MountItemRoutes attaches the routes scoped to one ledger. They live
// on the shared /{ledgerID} subrouter so they do not collide with the
// account and record mounts under the same prefix.
func (h *Handler) MountItemRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Rename)
	r.Delete("/", h.Delete)
}
