package api

import (
	"net/http"

	"github.com/starford/gebo/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GraphResponse is the full graph payload.
type GraphResponse struct {
	Nodes []models.Node `json:"nodes"`
	Edges []models.Edge `json:"edges"`
}

// BacklinksResponse lists the documents linking to a title.
type BacklinksResponse struct {
	Title     string        `json:"title"`
	Backlinks []models.Node `json:"backlinks"`
}

// Graph handles GET /graph: the complete node and edge sets.
func (h *Handler) Graph(w http.ResponseWriter, _ *http.Request) {
	g := h.svc.Snapshot()
	writeJSON(w, http.StatusOK, GraphResponse{Nodes: g.Nodes, Edges: g.Edges})
}

// Nodes handles GET /nodes.
func (h *Handler) Nodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"nodes": h.svc.Snapshot().Nodes})
}

// Edges handles GET /edges.
func (h *Handler) Edges(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"edges": h.svc.Snapshot().Edges})
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Snapshot().Stats())
}

// Node handles GET /nodes/lookup?title=...: the node a reference to that
// title resolves to.
func (h *Handler) Node(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title query parameter is required"))
		return
	}
	n, ok := h.svc.Snapshot().NodeByTitle(title)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("no node with that title"))
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Backlinks handles GET /backlinks?title=...
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title query parameter is required"))
		return
	}
	bl := h.svc.Snapshot().Backlinks(title)
	if bl == nil {
		bl = []models.Node{}
	}
	writeJSON(w, http.StatusOK, BacklinksResponse{Title: title, Backlinks: bl})
}
