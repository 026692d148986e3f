package cmd

import (
	"context"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "init-db-migrate",
	Short: "Initialize tables and run database migrations",
	Long:  `This job creates the postgres state table by running the goose migrations.`,
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config and set up logging
		commonSetUp()

		stateDB, err := storage.OpenPostgres(context.Background(), appCfg.Storage.Postgres, appCfg.AWS, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize StateDB")
		}
		defer stateDB.Close()

		// Run the migrations
		log.Info().Msgf("Running migrations...")
		if err := stateDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}

		log.Info().Msg("Migrations complete")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
