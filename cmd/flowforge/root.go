package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/flowforge/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
}

var rootCmd = &cobra.Command{
	Use:   "flowforge",
	Short: "Synthesize integration flow graphs from requirements",
	Long: "Flowforge turns a requirement (free-form text or a structured\n" +
		"component list) into a directed integration flow graph, optionally\n" +
		"stitched against a stored process topology for a coverage report.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "config/config.toml", "Config file path")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.Version = version
}

// loadConfig reads the config file, falling back to defaults when it
// is absent, then layers env-var overrides on top.
func loadConfig() *config.Config {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}
	cfg.ApplyEnv()
	return cfg
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
