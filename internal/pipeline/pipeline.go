// Package pipeline drives the corpus run: it lists the vault, parses and
// scans documents in parallel, and feeds the graph builder under a
// deterministic total order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/starford/gebo/internal/graph"
	"github.com/starford/gebo/internal/markdown"
	"github.com/starford/gebo/internal/models"
	"github.com/starford/gebo/internal/storage"
)

// Options tunes a build run.
type Options struct {
	// Workers bounds the parallel parse stage. Zero means GOMAXPROCS.
	Workers int
	// Exclude holds path.Match patterns; matching vault paths are skipped.
	Exclude []string
}

// docResult is the per-document output of the parallel stage. Parsing and
// scanning are pure per-document functions, so workers share no state; the
// results slice is indexed by listing position to keep the merge order
// independent of worker scheduling.
type docResult struct {
	doc  models.Document
	refs []models.ReferenceOccurrence
	err  error
}

// Build scans the whole vault and returns the assembled graph.
//
// Per-document failures (unreadable file, parse error) are warned and
// skipped: partial-corpus processing is the designed degraded mode. Errors
// that indicate a broken invariant (apperr.ErrInvariant) abort the run.
func Build(ctx context.Context, store storage.Provider, logger *slog.Logger, opts Options) (*graph.Graph, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("pipeline: list vault: %w", err)
	}
	metas = applyExcludes(metas, opts.Exclude)

	results := make([]docResult, len(metas))

	g, gCtx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, m := range metas {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = parseOne(store, m.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Sequential merge in path order: node materialisation first, then edge
	// resolution, so every target can see the full document set.
	b := graph.NewBuilder()
	for _, r := range results {
		if r.err != nil {
			logger.Warn("pipeline: skipping document",
				slog.String("path", r.doc.Path),
				slog.String("error", r.err.Error()))
			continue
		}
		if err := b.AddDocument(r.doc); err != nil {
			// AddDocument only fails on an identifier collision, which is an
			// invariant break: surface it loudly, never skip.
			return nil, err
		}
	}
	for _, r := range results {
		if r.err != nil {
			continue
		}
		for _, occ := range r.refs {
			if err := b.AddReference(occ); err != nil {
				return nil, err
			}
		}
	}

	return b.Graph(), nil
}

// BuildFile runs the pipeline over a single document, used when the CLI is
// pointed at one file instead of a vault directory.
func BuildFile(store storage.Provider, relPath string) (*graph.Graph, error) {
	r := parseOne(store, relPath)
	if r.err != nil {
		return nil, fmt.Errorf("pipeline: parse %s: %w", relPath, r.err)
	}
	b := graph.NewBuilder()
	if err := b.AddDocument(r.doc); err != nil {
		return nil, err
	}
	for _, occ := range r.refs {
		if err := b.AddReference(occ); err != nil {
			return nil, err
		}
	}
	return b.Graph(), nil
}

func parseOne(store storage.Provider, relPath string) docResult {
	res := docResult{doc: models.Document{Path: relPath}}

	data, err := store.Read(relPath)
	if err != nil {
		res.err = err
		return res
	}
	pd, err := markdown.Parse(data)
	if err != nil {
		res.err = err
		return res
	}
	res.doc = markdown.ExtractDocument(relPath, pd)
	res.refs = markdown.ScanReferences(relPath, pd.Spans)
	return res
}

func applyExcludes(metas []models.FileMeta, patterns []string) []models.FileMeta {
	if len(patterns) == 0 {
		return metas
	}
	out := metas[:0]
	for _, m := range metas {
		if matchAny(patterns, m.Path) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchAny(patterns []string, p string) bool {
	for _, pat := range patterns {
		if ok, err := path.Match(pat, p); err == nil && ok {
			return true
		}
		// Also match against the basename so "draft-*.md" excludes files in
		// subdirectories.
		if ok, err := path.Match(pat, path.Base(p)); err == nil && ok {
			return true
		}
	}
	return false
}
