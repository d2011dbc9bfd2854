package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cinelog/cinelog/config"
	"github.com/cinelog/cinelog/database"
	"github.com/cinelog/cinelog/engine"
	"github.com/cinelog/cinelog/tmdb"
)

var syncCmdFlags struct {
	MoviePages int
	TVPages    int
	Details    bool
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a one-shot catalog sync and exit",
	Long:  `This command imports the configured category listings from TMDB into the local database once, without starting the API server or the scheduler.`,
	Run:   sync,
}

func init() {
	syncCmd.Flags().IntVar(&syncCmdFlags.MoviePages, "movie-pages", 0, "Override the number of popular movie pages to import")
	syncCmd.Flags().IntVar(&syncCmdFlags.TVPages, "tv-pages", 0, "Override the number of popular tv pages to import")
	syncCmd.Flags().BoolVar(&syncCmdFlags.Details, "details", false, "Also fetch full details and credits for newly imported titles")

	rootCmd.AddCommand(syncCmd)
}

func sync(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyLogLevel(cfg)

	if syncCmdFlags.MoviePages > 0 {
		cfg.Sync.MoviePages = syncCmdFlags.MoviePages
	}
	if syncCmdFlags.TVPages > 0 {
		cfg.Sync.TVPages = syncCmdFlags.TVPages
	}
	if syncCmdFlags.Details {
		cfg.Sync.IncludeDetails = true
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	client, err := tmdb.New(cfg.TMDB)
	if err != nil {
		log.Fatalf("failed to create catalog client: %v", err)
	}

	eng, err := engine.New(cfg, db, client, false)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}
	defer eng.Close() //nolint:errcheck

	log.Info("starting catalog sync...")
	if err := eng.SyncAll(cmd.Context()); err != nil {
		log.Fatalf("catalog sync failed: %v", err)
	}

	ctx := cmd.Context()
	movies, err := db.CountMediaByType(ctx, database.MediaTypeMovie)
	if err != nil {
		log.Fatalf("failed to count movies: %v", err)
	}
	shows, err := db.CountMediaByType(ctx, database.MediaTypeTV)
	if err != nil {
		log.Fatalf("failed to count shows: %v", err)
	}

	log.Info("catalog sync finished",
		"movies", humanize.Comma(movies),
		"shows", humanize.Comma(shows),
	)
}
