package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskdigest/internal/app"
	"taskdigest/internal/config"
	"taskdigest/internal/logging"
)

var (
	inputDir       string
	outputDir      string
	llmMode        string
	ollamaURL      string
	ollamaModel    string
	timeoutSec     int
	extractTimeout int
	skipExtract    bool
	maxChars       int
	overlap        int
	daemon         bool

	historyLimit int
)

var rootCmd = &cobra.Command{
	Use:   "taskdigest",
	Short: "Turn raw operational logs into a prioritized daily digest",
	Long: `taskdigest ingests standup notes, Slack exports and email drops,
classifies every event with a deterministic priority policy, optionally
enriches them through a local Ollama model, and writes a grouped digest
as JSON, Markdown and HTML artifacts.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := resolveConfig(cmd)
		logger := logging.New(cfg.Logging.Level)

		application, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if daemon {
			return application.RunDaemon(ctx)
		}
		return application.RunOnce(ctx)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent run ids recorded in the audit database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := resolveConfig(cmd)
		logger := logging.New(cfg.Logging.Level)

		application, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		ids, err := application.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

// resolveConfig layers explicit command-line flags over file and
// environment configuration.
func resolveConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()

	set := cmd.Flags().Changed
	if set("input") {
		cfg.Input.Dir = inputDir
	}
	if set("output") {
		cfg.Output.Dir = outputDir
	}
	if set("llm") {
		cfg.LLM.Mode = llmMode
	}
	if set("ollama-url") {
		cfg.LLM.BaseURL = ollamaURL
	}
	if set("ollama-model") {
		cfg.LLM.Model = ollamaModel
	}
	if set("timeout") {
		cfg.LLM.TimeoutSeconds = timeoutSec
	}
	if set("extract-timeout") {
		cfg.LLM.ExtractTimeoutSeconds = extractTimeout
	}
	if set("skip-extract") {
		cfg.LLM.SkipExtract = skipExtract
	}
	if set("max-chars") {
		cfg.Chunking.MaxChars = maxChars
	}
	if set("overlap") {
		cfg.Chunking.Overlap = overlap
	}
	return cfg
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&inputDir, "input", "inputs", "directory tree with raw documents")
	pf.StringVar(&outputDir, "output", "outputs", "directory for generated artifacts")

	f := rootCmd.Flags()
	f.StringVar(&llmMode, "llm", "none", "enrichment mode: none or ollama")
	f.StringVar(&ollamaURL, "ollama-url", "http://localhost:11434", "Ollama base URL")
	f.StringVar(&ollamaModel, "ollama-model", "phi3:mini", "Ollama model name")
	f.IntVar(&timeoutSec, "timeout", 120, "summarization timeout in seconds")
	f.IntVar(&extractTimeout, "extract-timeout", 45, "per-chunk extraction timeout in seconds")
	f.BoolVar(&skipExtract, "skip-extract", false, "skip per-event enrichment, summary only")
	f.IntVar(&maxChars, "max-chars", 1200, "max characters per chunk")
	f.IntVar(&overlap, "overlap", 120, "characters of overlap between chunks")
	f.BoolVar(&daemon, "daemon", false, "keep running and regenerate the digest daily")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of run ids to list")
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
