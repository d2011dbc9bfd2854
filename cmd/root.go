package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cinelog/cinelog/api"
	"github.com/cinelog/cinelog/catalog"
	"github.com/cinelog/cinelog/config"
	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/engine"
	"github.com/cinelog/cinelog/reviews"
	"github.com/cinelog/cinelog/tmdb"
)

var rootCmdPersistentFlags struct {
	LogFile    string
	ConfigFile string
	LogLevel   string
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogFile, "log-file", "", "File to write logs to")
	rootCmd.PersistentFlags().StringVarP(&rootCmdPersistentFlags.ConfigFile, "config", "c", "", "Path to config file (default: search for config.yml in current dir, ~/.cinelog, /etc/cinelog)")
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error) - overrides config file setting")
}

var rootCmd = &cobra.Command{
	Use:   "cinelog",
	Short: "CineLog is a local movie and tv catalog with reviews and favorites",
	Long:  `CineLog mirrors movie and tv metadata from TMDB into a local database and serves it over an HTTP API with user reviews, ratings, favorites and content requests.`,
	Example: `cinelog --config config.yml
  cinelog -c /path/to/config.yml --log-level debug`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logToFile()
	},
	Run: root,
}

func root(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyLogLevel(cfg)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// An absent database file means a fresh install; seed it right away.
	_, statErr := os.Stat(cfg.Database.Path)
	syncOnStart := errors.Is(statErr, os.ErrNotExist)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	client, err := tmdb.New(cfg.TMDB)
	if err != nil {
		log.Fatalf("failed to create catalog client: %v", err)
	}

	eng, err := engine.New(cfg, db, client, syncOnStart)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}

	server, err := api.New(cfg, catalog.New(db), reviews.New(db), eng, client)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	go func() {
		if err := eng.Run(ctx); err != nil {
			log.Error("engine error", "error", err)
		}
	}()

	go func() {
		log.Info("starting API server", "listen", cfg.Listen)
		if err := server.Run(); err != nil {
			log.Error("API server error", "error", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	log.Info("cinelog started successfully")
	<-c
	log.Info("shutting down gracefully...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down API server", "error", err)
	}
	if err := eng.Close(); err != nil {
		log.Error("failed to close engine", "error", err)
	}
	if err := db.Close(); err != nil {
		log.Error("failed to close database", "error", err)
	}
}

// applyLogLevel applies the configured level, letting the flag win.
func applyLogLevel(cfg *config.Config) {
	level := cfg.LogLevel
	if rootCmdPersistentFlags.LogLevel != "" {
		level = rootCmdPersistentFlags.LogLevel
	}
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info", "":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warnf("unknown log level %s, defaulting to info", level)
		log.SetLevel(log.InfoLevel)
	}
}

func logToFile() {
	if rootCmdPersistentFlags.LogFile == "" {
		return
	}
	file, err := os.OpenFile(rootCmdPersistentFlags.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		log.Errorf("failed to open log file: %v", err)
		return
	}
	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.Info("logging to both console and file", "file", rootCmdPersistentFlags.LogFile)
}

func Execute() error {
	return rootCmd.Execute()
}
