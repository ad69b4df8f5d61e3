package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"colorharmony/analysis"
	"colorharmony/config"
	"colorharmony/logging"
	"colorharmony/metrics"
	"colorharmony/session"
	"colorharmony/storage"
)

var (
	dataDir    string
	logLevel   string
	showStats  bool
	appVersion = "0.3.0"
)

var rootCmd = &cobra.Command{
	Use:   "colorharmony",
	Short: "colorharmony – clothing and makeup colors for your skin tone",
	Long: "Colorharmony recommends clothing and makeup color palettes for a skin tone, " +
		"either chosen by hand or detected from a photo.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  "Manage colorharmony configuration files.",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a default configuration file",
	Long:  "Generate a default colorharmony.config file in the data directory (or current directory if not specified).",
	Args:  cobra.NoArgs,
	RunE:  runConfigGenerate,
}

var cfg config.Config

func init() {
	wd, _ := os.Getwd()
	rootCmd.Version = appVersion
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", wd, "Directory holding colorharmony.config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "Print counters collected during the run")

	configCmd.AddCommand(configGenerateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(recommendCmd, presetsCmd, detectCmd, adjustCmd, sliderCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(dataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	logging.Setup(cfg.LogLevel, cfg.LogConsole)
	return nil
}

// app bundles the components a command needs for one run.
type app struct {
	reg     *metrics.Registry
	store   *storage.Store
	runner  *analysis.Runner
	session *session.Session
}

func newApp(ctx context.Context, cfg config.Config) *app {
	reg := metrics.NewRegistry()
	store := storage.New(storage.Options{
		TTL:      cfg.ImageTTL.Std(),
		MaxBytes: cfg.MaxImageBytes,
		Metrics:  reg,
	})
	store.StartSweeper(ctx, cfg.SweepInterval.Std())

	runner := analysis.NewRunner(analysis.Options{
		DetectDelay: cfg.DetectDelay.Std(),
		AdjustDelay: cfg.AdjustDelay.Std(),
		Rand:        analysis.NewRand(cfg.Seed),
		Metrics:     reg,
	})

	return &app{
		reg:     reg,
		store:   store,
		runner:  runner,
		session: session.New(runner, store),
	}
}

// logEvents logs session notifications until the session is closed. The
// returned func blocks until every notification has been logged.
func (a *app) logEvents(logger zerolog.Logger) func() {
	events, unsubscribe := a.session.Subscribe(16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		logNotifications(logger, events)
	}()
	return func() {
		<-done
		unsubscribe()
	}
}

// close releases the session and prints counters when --stats is set.
func (a *app) close(ctx context.Context) {
	if err := a.session.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("close session")
	}
	if showStats {
		for _, line := range a.reg.SnapshotLines() {
			fmt.Fprintln(os.Stderr, line)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runConfigGenerate(cmd *cobra.Command, args []string) error {
	dataDirAbs, err := filepath.Abs(dataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	def := config.Default()
	def.DataDir = dataDirAbs

	cfgPath := filepath.Join(dataDirAbs, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("config file already exists: %s", cfgPath)
	}

	if err := config.Save(def); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated default config file: %s\n", cfgPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
