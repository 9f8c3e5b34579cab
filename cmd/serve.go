package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"landing-waitlist/pkg/api"
	"landing-waitlist/pkg/config"
	"landing-waitlist/pkg/metrics"
	"landing-waitlist/pkg/models"
	"landing-waitlist/pkg/services"
	"landing-waitlist/pkg/store"
)

func init() {
	serveCmd.Flags().String("port", "", "port to listen on (default 8080)")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server accepting waitlist signups",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	// The store handle is built once and shared by every request
	signupStore, err := store.Open(cfg)
	switch {
	case errors.Is(err, models.ErrServerNotConfigured):
		log.Warn().Str("section", "init").Msg("SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY missing, signups will fail")
		signupStore = nil
	case err != nil:
		return err
	default:
		defer func() {
			if err := signupStore.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing store")
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("landing", registry)

	submissionService := services.NewWaitlistSubmissionService(signupStore, m)
	handlers := api.NewHandlers(submissionService, m)
	router := api.NewRouter(handlers, cfg.CORSOrigins, m, registry)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
