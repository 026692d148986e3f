package cmd

import (
	"context"
	"fmt"

	"github.com/EO-DataHub/eodhp-staff-directory/api/services"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/events"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/persistence"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/store"
	"github.com/rs/zerolog/log"
)

// runtime bundles what a command needs to work on the state.
type runtime struct {
	store    *store.Store
	storage  persistence.Storage
	notifier events.Notifier
}

func (rt *runtime) Close() {
	rt.notifier.Close()
	if err := rt.storage.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close state storage")
	}
}

// openRuntime opens storage, connects the notifier and restores the store.
func openRuntime(ctx context.Context) (*runtime, error) {
	wl, err := persistence.NewWhitelist(appCfg.Persistence.Whitelist...)
	if err != nil {
		return nil, err
	}

	st, err := storage.Open(ctx, appCfg.Storage, appCfg.AWS, &log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open state storage: %w", err)
	}

	var notifier events.Notifier = events.NopNotifier{}
	if appCfg.Pulsar.URL != "" {
		notifier, err = events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.Topic, &log.Logger)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	provider := services.NewPeopleClient(appCfg.Provider.URL, appCfg.Provider.Seed,
		appCfg.Provider.PageSize, appCfg.Provider.Timeout)

	s := store.Open(ctx, st, provider,
		store.WithKey(appCfg.Persistence.Key),
		store.WithWhitelist(wl),
		store.WithNotifier(notifier),
		store.WithLogger(&log.Logger),
	)

	return &runtime{store: s, storage: st, notifier: notifier}, nil
}
