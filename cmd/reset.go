package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cinelog/cinelog/config"
	"github.com/cinelog/cinelog/database"
)

var resetCmdFlags struct {
	Yes bool
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all catalog and user data from the database",
	Long:  `This command deletes all imported titles, genres, reviews, favorites and content requests from the local database. The schema is kept; the next sync repopulates the catalog.`,
	Run:   reset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetCmdFlags.Yes, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(resetCmd)
}

func reset(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyLogLevel(cfg)

	if !resetCmdFlags.Yes {
		log.Fatal("refusing to wipe the database without --yes")
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	if err := db.Reset(); err != nil {
		log.Fatalf("failed to reset database: %v", err)
	}

	log.Info("database reset successfully")
}
