package api

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all graph routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/graph", h.Graph)
	r.Get("/nodes", h.Nodes)
	r.Get("/nodes/lookup", h.Node)
	r.Get("/edges", h.Edges)
	r.Get("/stats", h.Stats)
	r.Get("/backlinks", h.Backlinks)

	return r
}
