package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Consume state change events from the Pulsar topic and log them",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config and set up logging
		commonSetUp()

		if appCfg.Pulsar.URL == "" {
			log.Fatal().Msg("pulsar url is not configured")
		}

		consumer, err := events.NewEventConsumer(appCfg.Pulsar.URL, appCfg.Pulsar.Topic,
			appCfg.Pulsar.Subscription, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event consumer")
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = consumer.Consume(ctx, func(e events.EventPayload) error {
			log.Info().Str("slice", e.Slice).Str("action", e.Action).Str("id", e.ID).
				Time("at", e.Timestamp).Msg("Received change event")
			return nil
		})
		if err != nil {
			log.Error().Err(err).Msg("Stopped consuming events")
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
