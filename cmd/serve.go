package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/EO-DataHub/eodhp-staff-directory/api/handlers"
	"github.com/EO-DataHub/eodhp-staff-directory/api/services"
	docs "github.com/EO-DataHub/eodhp-staff-directory/docs"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/connectivity"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"
)

// @title Staff Directory API
// @version v1
// @description Directory cache, team and project management for the staff directory.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config and set up logging
		commonSetUp()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := openRuntime(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize state")
		}
		defer rt.Close()

		probe, err := connectivity.NewProbe(appCfg.Provider.URL, appCfg.Connectivity.Interval,
			appCfg.Connectivity.Timeout, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize connectivity probe")
		}

		// Create routes
		r := mux.NewRouter()

		service := &services.Service{
			Config:       appCfg,
			Store:        rt.store,
			Connectivity: probe,
		}
		handlers.RegisterRoutes(r, appCfg.BasePath, service)

		// Metrics
		registry := prometheus.NewRegistry()
		registry.MustRegister(metrics.NewCollector(rt.store, probe))
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

		// Docs
		docs.SwaggerInfo.Host = appCfg.Host
		docs.SwaggerInfo.BasePath = appCfg.BasePath
		r.PathPrefix(appCfg.DocsPath).Handler(httpSwagger.Handler(
			httpSwagger.URL(path.Join(appCfg.DocsPath, "/doc.json")),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("none"),
			httpSwagger.DomID("swagger-ui"),
		)).Methods(http.MethodGet)

		server := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return rt.store.Run(gctx) })
		g.Go(func() error { return probe.Run(gctx) })
		g.Go(func() error {
			log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			log.Error().Err(err).Msg("server stopped with error")
		}

		// Requests drained by Shutdown may have committed after the persister stopped.
		rt.store.Flush(context.Background())

		st := rt.store.PersistStats()
		log.Info().Uint64("saved", st.Saved).Uint64("written", st.Written).Uint64("failed", st.Failed).
			Msg("Server stopped, state flushed")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}
