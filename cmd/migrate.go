package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jjenkins/parlamentar/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long:  `Create every table the API and the importer use. Existing tables are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := store.NewDB(cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			return err
		}
		defer db.Close()

		if err := store.Migrate(cmd.Context(), db, cfg.Database.Driver); err != nil {
			log.Error("migration failed", "error", err)
			return err
		}
		log.Info("schema is up to date", "driver", cfg.Database.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
