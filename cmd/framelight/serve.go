package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/framelight/framelight"
	"github.com/framelight/framelight/internal/config"
	"github.com/framelight/framelight/internal/logging"
	"github.com/framelight/framelight/internal/runtime"
	"github.com/framelight/framelight/pkg/adapters/httpapi"
	redisstore "github.com/framelight/framelight/pkg/adapters/redis"
	"github.com/framelight/framelight/pkg/observability"
	"github.com/framelight/framelight/pkg/ports"
	"github.com/framelight/framelight/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the playback HTTP server",
	Long:  `Starts the Framelight engine in server mode, exposing playback sessions over a JSON API. Configuration is read from FRAMELIGHT_* environment variables; flags take precedence.`,
	Run: func(cmd *cobra.Command, args []string) {
		docPath, _ := cmd.Flags().GetString("file")
		if !cmd.Flags().Changed("file") && len(args) > 0 {
			docPath = args[0]
		}

		cfg, err := config.FromEnv()
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}

		logger := logging.New(parseLevel(cfg.LogLevel))

		storeOpts := make([]framelight.Option, 0, 2)
		storeOpts = append(storeOpts, framelight.WithLogger(logger))

		var store ports.SnapshotStore
		if cfg.RedisURL != "" {
			redisOpts, err := backend.ParseURL(cfg.RedisURL)
			if err != nil {
				fmt.Printf("Error parsing redis url: %v\n", err)
				os.Exit(1)
			}
			store = redisstore.NewFromClient(backend.NewClient(redisOpts), redisstore.WithTTL(cfg.SessionTTL))
			logger.Info("Using Redis snapshot store", "addr", redisOpts.Addr)
			storeOpts = append(storeOpts, framelight.WithSnapshotStore(store))
		}

		engine, err := framelight.New(docPath, storeOpts...)
		if err != nil {
			fmt.Printf("Error initializing framelight: %v\n", err)
			os.Exit(1)
		}

		serverOpts := []httpapi.Option{
			httpapi.WithLogger(logger),
			httpapi.WithVersion(framelight.Version),
		}
		sessionOpts := []session.Option{}
		if cfg.Metrics {
			metrics := observability.NewMetrics()
			serverOpts = append(serverOpts,
				httpapi.WithMetricsHandler(metrics.Handler()),
				httpapi.WithSessionGauge(metrics),
			)
			sessionOpts = append(sessionOpts, session.WithPlayerOptions(runtime.WithMetrics(metrics)))
		}

		manager := engine.Sessions(sessionOpts...)
		defer manager.Close()

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: httpapi.NewHandler(manager, serverOpts...),
		}

		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Framelight Server on %s\n", srv.Addr)
			fmt.Printf("Serving prototype: %s\n", engine.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Framelight Server stopped gracefully")
		}
	},
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides FRAMELIGHT_ADDR)")
}
