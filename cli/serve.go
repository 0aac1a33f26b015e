package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mbolis/quick-swipe/app"
	"github.com/mbolis/quick-swipe/config"
	"github.com/mbolis/quick-swipe/database"
	"github.com/mbolis/quick-swipe/httpx"
	"github.com/mbolis/quick-swipe/log"
	"github.com/mbolis/quick-swipe/routes"
	"github.com/spf13/cobra"
)

func NewServeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the survey API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config
			if err := cfg.ValidateServer(); err != nil {
				return err
			}

			store, err := database.Open(cfg.DBUrl)
			if err != nil {
				return err
			}
			defer store.Close()

			handler := routes.Wire(app.App{
				Store:        store,
				BearerServer: httpx.NewBearerServer(store, cfg.TokenSecret, cfg.TokenTTL),
				Config:       cfg,
			})

			return runServer(cmd.Context(), cfg, handler)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("server.shutdown: %s", err)
		}
	}()

	log.Info("Listening on " + cfg.Url())
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		log.Info("Server closed")
		return nil
	}
	return err
}
