package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenthands/flowforge/internal/core"
	"github.com/agenthands/flowforge/internal/core/intent"
	"github.com/agenthands/flowforge/internal/driver"
	"github.com/agenthands/flowforge/internal/llm"
	"github.com/agenthands/flowforge/internal/store"
)

var generateFlags struct {
	requirement    string
	componentsPath string
	process        string
	outputPath     string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Synthesize a flow graph from a requirement",
	Long: `Generate a flow graph from free-form requirement text or from a
pre-structured component list.

Usage:
  flowforge generate -r "receive orders, enrich, route by region"
  flowforge generate -f components.json --process order-process

With --process, the stored topology of that process is stitched
against similar artifacts and the result carries a coverage report.
Requirement text needs a configured LLM provider; a components file
does not.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.requirement, "requirement", "r", "", "Requirement text")
	f.StringVarP(&generateFlags.componentsPath, "file", "f", "", "Path to JSON component list")
	f.StringVar(&generateFlags.process, "process", "", "Stored process to stitch coverage against")
	f.StringVarP(&generateFlags.outputPath, "output", "o", "", "Output path (default: stdout)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateFlags.requirement == "" && generateFlags.componentsPath == "" {
		return fmt.Errorf("either --requirement or --file is required")
	}

	cfg := loadConfig()
	ctx := context.Background()

	var llmClient llm.LLMClient
	var embedder llm.EmbedderClient
	if generateFlags.requirement != "" {
		var err error
		llmClient, embedder, err = llm.NewClient(ctx, cfg.LLM)
		if err != nil {
			return fmt.Errorf("init llm client: %w", err)
		}
	}

	var graphDriver driver.GraphDriver
	var artifacts core.ArtifactSearcher
	if generateFlags.process != "" {
		uri := cfg.Memgraph.URI
		if uri == "" {
			uri = "bolt://localhost:7687"
		}
		d, err := driver.NewMemgraphDriver(uri, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			return fmt.Errorf("connect to Memgraph: %w", err)
		}
		defer d.Close(ctx)
		graphDriver = d

		st, err := store.NewSQLiteStore(cfg.Artifacts.Path, embedder)
		if err != nil {
			return fmt.Errorf("open artifact store: %w", err)
		}
		defer st.Close()
		artifacts = st
	}

	s := core.NewSynthesizer(graphDriver, artifacts, llmClient, cfg)

	var result *core.GenerationResult
	var err error
	if generateFlags.componentsPath != "" {
		data, rerr := os.ReadFile(generateFlags.componentsPath)
		if rerr != nil {
			return fmt.Errorf("read components: %w", rerr)
		}
		var raw []intent.RawComponent
		if jerr := json.Unmarshal(data, &raw); jerr != nil {
			return fmt.Errorf("parse components: %w", jerr)
		}
		result, err = s.GenerateFromComponents(ctx, raw, generateFlags.process)
	} else {
		result, err = s.GenerateFromText(ctx, generateFlags.requirement, generateFlags.process)
	}
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if generateFlags.outputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	if err := os.WriteFile(generateFlags.outputPath, out, 0600); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Result written to: %s\n", generateFlags.outputPath)
	return nil
}
