package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/gebo/internal"
	"github.com/starford/gebo/internal/export"
	"github.com/starford/gebo/internal/loader"
	"github.com/starford/gebo/internal/mcpserver"
	"github.com/starford/gebo/internal/pipeline"
	"github.com/starford/gebo/internal/storage"
	pkgconfig "github.com/starford/gebo/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runBuild(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if input := cmd.Args().First(); input != "" {
		cfg.Vault.Path = input
	}
	if out := cmd.String("output"); out != "" {
		cfg.Output.Dir = out
	}
	if exclude := cmd.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Vault.Exclude = exclude
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := internal.NewLogger(cfg)

	g, paths, err := internal.BuildAndExport(ctx, cfg, logger)
	if err != nil {
		return err
	}
	stats := g.Stats()
	fmt.Printf("Found %d nodes and %d edges (%d placeholders)\n",
		stats.Nodes, stats.Edges, stats.Placeholders)
	fmt.Printf("Exported nodes to %s\n", paths.Nodes)
	fmt.Printf("Exported edges to %s\n", paths.Edges)
	return nil
}

func runLoad(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cmd.String("dir")
	if dir == "" {
		dir = cfg.Output.Dir
	}

	tables, err := export.ReadTables(dir)
	if err != nil {
		return err
	}

	var consumer loader.Consumer
	switch target := cmd.String("target"); target {
	case "sqlite":
		db, err := loader.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		consumer = db
	case "neo4j":
		if err := cfg.Neo4j.Validate(); err != nil {
			return fmt.Errorf("invalid neo4j configuration: %w", err)
		}
		n4j, err := loader.NewNeo4j(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
		if err != nil {
			return err
		}
		defer n4j.Close(ctx) //nolint:errcheck
		if err := n4j.Verify(ctx); err != nil {
			return err
		}
		consumer = n4j
	default:
		return fmt.Errorf("unknown load target %q (want sqlite or neo4j)", target)
	}

	if err := consumer.Load(ctx, tables); err != nil {
		return err
	}
	fmt.Printf("Loaded %d nodes and %d edges into %s\n",
		len(tables.Nodes), len(tables.Edges), consumer.Name())
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if input := cmd.Args().First(); input != "" {
		cfg.Vault.Path = input
	}

	// Stdout carries the MCP protocol; logs must go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return err
	}
	g, err := pipeline.Build(ctx, store, logger, pipeline.Options{
		Workers: cfg.Vault.Workers,
		Exclude: cfg.Vault.Exclude,
	})
	if err != nil {
		return err
	}

	return mcpserver.New(g).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "gebo",
		Usage: "Convert a Markdown vault with [[wikilinks]] into a graph dataset",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Parse the vault (or a single file) and export nodes/edges CSV tables",
				ArgsUsage: "[input path]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory to write output tables",
					},
					&cli.StringSliceFlag{
						Name:  "exclude",
						Usage: "Glob pattern for vault paths to skip (repeatable)",
					},
				},
				Action: runBuild,
			},
			{
				Name:  "load",
				Usage: "Load exported CSV tables into a graph store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Directory containing nodes.csv and edges.csv (default: output dir)",
					},
					&cli.StringFlag{
						Name:     "target",
						Aliases:  []string{"t"},
						Usage:    "Load target: sqlite or neo4j",
						Required: true,
					},
				},
				Action: runLoad,
			},
			{
				Name:   "serve",
				Usage:  "Serve the graph over HTTP and rebuild on vault changes",
				Action: runServe,
			},
			{
				Name:      "mcp",
				Usage:     "Serve graph tools over MCP stdio transport",
				ArgsUsage: "[input path]",
				Action:    runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
