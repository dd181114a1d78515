package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/datacarts/barcode-enricher/internal/config"
	"github.com/datacarts/barcode-enricher/internal/db"
	"github.com/datacarts/barcode-enricher/internal/fetch"
	"github.com/datacarts/barcode-enricher/internal/llm"
	"github.com/datacarts/barcode-enricher/internal/observability"
	"github.com/datacarts/barcode-enricher/internal/pipeline"
	"github.com/datacarts/barcode-enricher/internal/progress"
	"github.com/datacarts/barcode-enricher/internal/sources"
	"github.com/datacarts/barcode-enricher/internal/store"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the enrichment pipeline over a CSV of barcodes",
	Long: `Processes every barcode in the input file through the lookup cascade
(OpenFoodFacts -> Google Custom Search -> DigitEyes), structures the result
with the first healthy generative provider, and falls back to local heuristic
formatting when none is available.

Credentials come from the environment (or .env). Configuration can be loaded
from a JSON file using --config; command-line flags override config values.
Interrupting with Ctrl-C finishes the barcode in flight, writes a checkpoint,
and exits; the next run resumes where it stopped.`,
	RunE: runBatchCmd,
}

var (
	runConfigPath  string
	runInput       string
	runOutputDir   string
	runDelay       float64
	runMaxRetries  int
	runDatabaseURL string
	runVerbose     bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	runCommand.Flags().StringVarP(&runInput, "input", "i", "", "Path to CSV file of barcodes")
	runCommand.Flags().StringVarP(&runOutputDir, "output-dir", "o", "", "Directory for products, ledgers, and checkpoints (default \"output\")")
	runCommand.Flags().Float64Var(&runDelay, "delay", 0, "Seconds to wait between barcodes (default 1)")
	runCommand.Flags().IntVar(&runMaxRetries, "max-retries", 0, "HTTP retry attempts per request (default 5)")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print per-barcode progress detail")

	rootCmd.AddCommand(runCommand)
}

func runBatchCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Config file first, then env fills the gaps, then flags override.
	var cfg config.Config
	if runConfigPath != "" {
		loaded, err := config.Load(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if runVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}
	cfg = cfg.MergeWithDefaults(config.FromEnv())

	if cmd.Flags().Changed("input") {
		cfg.Input = runInput
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("delay") {
		cfg.RequestDelaySeconds = runDelay
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries = runMaxRetries
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if runVerbose {
		cfg.Verbose = true
	}

	cfg.ApplyDefaults()
	if cfg.Input == "" {
		return fmt.Errorf("--input is required (or set \"input\" in the config file)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, name := range cfg.MissingCredentials() {
		fmt.Fprintf(os.Stderr, "Warning: %s not set; the corresponding service is disabled\n", name)
	}

	p, cleanup, err := buildPipeline(ctx, &cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// First Ctrl-C requests a cooperative stop; a second one kills the
	// process the usual way.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping after the current barcode (Ctrl-C again to abort)...")
		p.Stop()
		signal.Stop(sigCh)
	}()
	defer signal.Stop(sigCh)

	summary, err := p.Run(ctx, cfg.Input)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Output written to %s\n", filepath.Join(cfg.OutputDir, store.ProductsFile))
	if summary.Errored > 0 {
		fmt.Fprintf(os.Stdout, "Unresolved barcodes recorded in %s\n", filepath.Join(cfg.OutputDir, store.NotFoundFile))
	}
	return nil
}

// buildPipeline wires the store, source cascade, providers, and the
// optional database mirror from configuration.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, func(), error) {
	st, err := store.Open(cfg.OutputDir)
	if err != nil {
		return nil, nil, err
	}

	opts := &fetch.Options{
		Timeout:    fetch.DefaultTimeout,
		UserAgent:  fetch.DefaultUserAgent,
		MaxRetries: cfg.MaxRetries,
		Backoff:    time.Second,
	}

	logf := func(format string, args ...any) {
		if cfg.Verbose {
			fmt.Fprintf(os.Stdout, format+"\n", args...)
		}
	}

	var cleanups []func()
	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}

	clients := []sources.Client{sources.NewOpenFoodFacts(cfg.OpenFoodFactsURL, opts)}
	if cfg.GoogleAPIKey != "" && cfg.GoogleCX != "" {
		ws, err := sources.NewWebSearch(ctx, cfg.GoogleAPIKey, cfg.GoogleCX, cfg.MaxRetries)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("web search init: %w", err)
		}
		clients = append(clients, ws)
	}
	if cfg.DigitEyesAppKey != "" && cfg.DigitEyesSignature != "" {
		clients = append(clients, sources.NewDigitEyes(cfg.DigitEyesAppKey, cfg.DigitEyesSignature, opts))
	}

	var providers []llm.Provider
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("gemini init: %w", err)
		}
		cleanups = append(cleanups, func() { _ = gemini.Close() })
		providers = append(providers, gemini)
	}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, llm.OpenAI(cfg.OpenAIAPIKey))
	}
	if cfg.DeepSeekAPIKey != "" {
		providers = append(providers, llm.DeepSeek(cfg.DeepSeekAPIKey))
	}

	var enhancer *llm.Cascade
	if len(providers) > 0 {
		enhancer = llm.NewCascade(providers...)
		enhancer.Health.ReprobeAfter = cfg.HealthReprobe()
		enhancer.Logf = logf
		logf("generative providers: %s", enhancer.String())
	} else {
		fmt.Fprintln(os.Stderr, "Warning: no generative provider configured; using local formatting only")
	}

	// Database mirroring is best-effort: a connection failure warns and
	// the run continues on files alone.
	var mirror *db.DB
	if cfg.DatabaseURL != "" {
		mirror, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: database unavailable, continuing without mirror: %v\n", err)
			mirror = nil
		} else {
			cleanups = append(cleanups, mirror.Close)
		}
	}

	p := &pipeline.Pipeline{
		Sources:  &sources.Cascade{Clients: clients, Logf: logf},
		Enhancer: enhancer,
		Store:    st,
		Progress: progress.NewTracker(cfg.OutputDir),
		Mirror:   mirror,
		Printer:  observability.NewPrinter(os.Stdout),
		PageText: func(ctx context.Context, url string) (string, error) {
			return fetch.PageText(ctx, url, opts)
		},
		Delay: cfg.RequestDelay(),
		Logf:  logf,
	}
	return p, cleanup, nil
}
