package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/warp/latefee/api"
	"github.com/warp/latefee/config"
	"github.com/warp/latefee/fee"
	"github.com/warp/latefee/logging"
	"github.com/warp/latefee/metrics"
	"github.com/warp/latefee/store"
	"github.com/warp/latefee/store/sqlite"
)

func newServeCmd() *cobra.Command {
	var (
		port       int
		dbPath     string
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			srvCfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				srvCfg.HTTPPort = port
			}
			if cmd.Flags().Changed("db") {
				srvCfg.DBPath = dbPath
			}
			if cmd.Flags().Changed("config-file") {
				srvCfg.ConfigFile = configFile
			}
			return runServe(srvCfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
	cmd.Flags().StringVar(&dbPath, "db", "latefee.db", `SQLite database path (":memory:" for in-memory)`)
	cmd.Flags().StringVar(&configFile, "config-file", "", "Fee configuration (YAML/JSON) to seed an empty store")
	return cmd
}

func runServe(srvCfg *config.Server) error {
	logger := logging.Setup(srvCfg.Environment, srvCfg.LogLevel)

	s, err := sqlite.New(srvCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer s.Close()

	if err := seedStore(context.Background(), s, srvCfg.ConfigFile, logger); err != nil {
		return err
	}

	handler := api.NewHandler(s, fee.NewCalculator(srvCfg.MaxSpan()), metrics.New(), logger)
	router := api.NewRouter(handler, srvCfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", srvCfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Int("port", srvCfg.HTTPPort).
			Str("db", srvCfg.DBPath).
			Dur("max_span", srvCfg.MaxSpan()).
			Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// seedStore stores the configuration in path when the store is empty.
func seedStore(ctx context.Context, s store.Store, path string, logger zerolog.Logger) error {
	if path == "" {
		return nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	wrote, err := store.Seed(ctx, s, cfg)
	if err != nil {
		return fmt.Errorf("failed to seed configuration: %w", err)
	}
	if wrote {
		logger.Info().Str("file", path).Str("rate", cfg.Rate.String()).Msg("seeded fee configuration")
	} else {
		logger.Debug().Str("file", path).Msg("store already configured, seed file ignored")
	}
	return nil
}
