package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenthands/flowforge/internal/core"
	"github.com/agenthands/flowforge/internal/core/model"
	"github.com/agenthands/flowforge/internal/driver"
	"github.com/agenthands/flowforge/internal/llm"
	"github.com/agenthands/flowforge/internal/store"
)

var ingestFlags struct {
	skeletonPath  string
	process       string
	artifactsPath string
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load process topologies and artifacts into the stores",
	Long: `Ingest a process topology into the graph store and/or reusable
artifacts into the similarity store.

Usage:
  flowforge ingest --skeleton skeleton.json --process order-process
  flowforge ingest --artifacts artifacts.json

A skeleton file is a JSON object with "nodes" and "edges". An
artifacts file is a JSON array of artifacts; embeddings are computed
at ingest time when the configured provider supports them.`,
	RunE: runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.StringVar(&ingestFlags.skeletonPath, "skeleton", "", "Path to skeleton JSON")
	f.StringVar(&ingestFlags.process, "process", "", "Process name for the skeleton")
	f.StringVar(&ingestFlags.artifactsPath, "artifacts", "", "Path to artifacts JSON")
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestFlags.skeletonPath == "" && ingestFlags.artifactsPath == "" {
		return fmt.Errorf("either --skeleton or --artifacts is required")
	}
	if ingestFlags.skeletonPath != "" && ingestFlags.process == "" {
		return fmt.Errorf("--process is required with --skeleton")
	}

	cfg := loadConfig()
	ctx := context.Background()

	if ingestFlags.skeletonPath != "" {
		data, err := os.ReadFile(ingestFlags.skeletonPath)
		if err != nil {
			return fmt.Errorf("read skeleton: %w", err)
		}
		var skeleton model.Skeleton
		if err := json.Unmarshal(data, &skeleton); err != nil {
			return fmt.Errorf("parse skeleton: %w", err)
		}

		uri := cfg.Memgraph.URI
		if uri == "" {
			uri = "bolt://localhost:7687"
		}
		d, err := driver.NewMemgraphDriver(uri, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			return fmt.Errorf("connect to Memgraph: %w", err)
		}
		defer d.Close(ctx)

		s := core.NewSynthesizer(d, nil, nil, cfg)
		if err := s.BuildIndices(ctx); err != nil {
			return fmt.Errorf("build indices: %w", err)
		}
		if err := s.SaveSkeleton(ctx, ingestFlags.process, skeleton); err != nil {
			return fmt.Errorf("save skeleton: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved skeleton %q (%d nodes, %d edges)\n",
			ingestFlags.process, len(skeleton.Nodes), len(skeleton.Edges))
	}

	if ingestFlags.artifactsPath != "" {
		data, err := os.ReadFile(ingestFlags.artifactsPath)
		if err != nil {
			return fmt.Errorf("read artifacts: %w", err)
		}
		var artifacts []model.Artifact
		if err := json.Unmarshal(data, &artifacts); err != nil {
			return fmt.Errorf("parse artifacts: %w", err)
		}

		var embedder llm.EmbedderClient
		if cfg.LLM.Provider != "" {
			_, embedder, err = llm.NewClient(ctx, cfg.LLM)
			if err != nil {
				return fmt.Errorf("init llm client: %w", err)
			}
		}

		st, err := store.NewSQLiteStore(cfg.Artifacts.Path, embedder)
		if err != nil {
			return fmt.Errorf("open artifact store: %w", err)
		}
		defer st.Close()

		if err := st.Put(ctx, artifacts); err != nil {
			return fmt.Errorf("save artifacts: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d artifact(s) to %s\n", len(artifacts), cfg.Artifacts.Path)
	}

	return nil
}
