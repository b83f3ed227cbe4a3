package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cashflowstory/cashflowstory/internal/application/calc"
	"github.com/cashflowstory/cashflowstory/internal/cache"
	"github.com/cashflowstory/cashflowstory/internal/config"
	"github.com/cashflowstory/cashflowstory/internal/domain/ratio"
	httpserver "github.com/cashflowstory/cashflowstory/internal/interfaces/http"
	"github.com/cashflowstory/cashflowstory/internal/interfaces/http/handlers"
)

// runServe starts the analytics HTTP server and blocks until shutdown.
func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	engine := ratio.NewEngine(cfg.Engine.DaysInPeriod)
	calculator := calc.New(engine)
	byteCache := cache.NewAuto(cfg.Cache.RedisAddr)

	h := handlers.NewHandlers(calculator, byteCache, cfg.Cache.GetDemoTTL(), appName, version)

	server, err := httpserver.NewServer(cfg, h)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		addr := server.GetAddress()
		log.Info().
			Str("calculate", fmt.Sprintf("http://%s/api/calculate", addr)).
			Str("batch", fmt.Sprintf("http://%s/api/calculate/batch", addr)).
			Str("demo", fmt.Sprintf("http://%s/api/demo/rebeccas", addr)).
			Str("health", fmt.Sprintf("http://%s/health", addr)).
			Str("metrics", fmt.Sprintf("http://%s/metrics", addr)).
			Msg("API endpoints available")

		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
		return err
	}

	log.Info().Msg("Server shutdown complete")
	return nil
}
