package api

import (
	"sync"

	"github.com/starford/gebo/internal/graph"
)

// Service holds the latest built graph for the read-only API. The watcher
// swaps in a fresh snapshot after each rebuild; handlers only ever read a
// complete, immutable graph.
type Service struct {
	mu sync.RWMutex
	g  *graph.Graph
}

// NewService creates a service seeded with the initial graph.
func NewService(g *graph.Graph) *Service {
	return &Service{g: g}
}

// Set replaces the current snapshot.
func (s *Service) Set(g *graph.Graph) {
	s.mu.Lock()
	s.g = g
	s.mu.Unlock()
}

// Snapshot returns the current graph.
func (s *Service) Snapshot() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g
}
