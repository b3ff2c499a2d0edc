package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theopenlane/shelfcheck/internal/api"
)

// serveCmd is the cobra command that starts the shelfcheck API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the shelfcheck api server",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the serve command on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
}

// serve initializes dependencies and starts the shelfcheck API server
func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := setupStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setting up storage: %w", err)
	}

	if st != nil {
		defer func() { _ = st.Close() }()
	}

	s, catalog, err := setupScanner(cfg, st)
	if err != nil {
		return fmt.Errorf("setting up scanner: %w", err)
	}

	routerCfg := api.RouterConfig{
		Scanner:        s,
		Catalog:        catalog,
		MaxBodySize:    cfg.Server.MaxBodySize,
		RequestTimeout: cfg.Server.RequestTimeout,
	}

	if st != nil {
		routerCfg.Store = st
	}

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      api.NewRouter(routerCfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Int("rules", catalog.Len()).Msg("starting shelfcheck service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}
