package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"

	"github.com/starford/gebo/internal/export"
	"github.com/starford/gebo/internal/models"
)

// Neo4j loads the graph tables into a Neo4j instance using MERGE upserts
// keyed on the node id property, so repeated loads stay idempotent.
type Neo4j struct {
	driver neo4j.DriverWithContext
	db     string
}

// NewNeo4j creates a driver for the given connection details. Call Verify
// before loading to fail fast on bad configuration.
func NewNeo4j(uri, username, password, db string) (*Neo4j, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("loader: create neo4j driver: %w", err)
	}
	return &Neo4j{driver: driver, db: db}, nil
}

// Verify checks connectivity to the database.
func (l *Neo4j) Verify(ctx context.Context) error {
	if err := l.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("loader: neo4j connectivity: %w", err)
	}
	return nil
}

// Close releases the underlying driver.
func (l *Neo4j) Close(ctx context.Context) error { return l.driver.Close(ctx) }

// Name identifies this consumer.
func (l *Neo4j) Name() string { return "neo4j" }

// Load merges all nodes, then all relationships.
func (l *Neo4j) Load(ctx context.Context, t *export.Tables) error {
	for _, n := range t.Nodes {
		query, params, err := gocypher.NewQueryBuilder().
			Merge(gocypher.N("n", models.LabelDocument).WithProperties(map[string]interface{}{
				"id": n.ID,
			})).
			Set(map[string]interface{}{
				"n.title":    n.Title,
				"n.filepath": n.Filepath,
				"n.labels":   strings.Join(n.Labels, ","),
				"n.tags":     strings.Join(n.Tags, ";"),
			}).
			Return("n").
			Build()
		if err != nil {
			return fmt.Errorf("loader: build node query: %w", err)
		}
		if err := l.run(ctx, query, params); err != nil {
			return fmt.Errorf("loader: merge node %s: %w", n.ID, err)
		}
	}

	for _, e := range t.Edges {
		query, params, err := gocypher.NewQueryBuilder().
			Match(gocypher.N("a", models.LabelDocument).WithProperties(map[string]interface{}{"id": e.SrcID})).
			Match(gocypher.N("b", models.LabelDocument).WithProperties(map[string]interface{}{"id": e.DstID})).
			Merge(
				gocypher.N("a", ""),
				gocypher.R("r", e.Type).To(),
				gocypher.N("b", ""),
			).
			Set(map[string]interface{}{
				"r.context_snippet": e.ContextSnippet,
			}).
			Return("r").
			Build()
		if err != nil {
			return fmt.Errorf("loader: build edge query: %w", err)
		}
		if err := l.run(ctx, query, params); err != nil {
			return fmt.Errorf("loader: merge edge %s->%s: %w", e.SrcID, e.DstID, err)
		}
	}

	return nil
}

func (l *Neo4j) run(ctx context.Context, query string, params map[string]interface{}) error {
	_, err := neo4j.ExecuteQuery(ctx, l.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(l.db),
	)
	return err
}
