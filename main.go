package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/tonghaoch/storefront-relay-go/internal/app"
	"github.com/tonghaoch/storefront-relay-go/internal/config"
	"github.com/tonghaoch/storefront-relay-go/internal/logger"
	"github.com/tonghaoch/storefront-relay-go/internal/server"
	"github.com/tonghaoch/storefront-relay-go/internal/serverless"
	"github.com/tonghaoch/storefront-relay-go/internal/stats"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "storefront-relay",
		Short:        "Storefront relays for AI chat and order tracking",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd(), lambdaCmd(), versionCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
}

func serveCmd() *cobra.Command {
	var (
		port    int
		verbose bool
		logDir  string
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run both relays on a local HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("log-dir") {
				cfg.Server.LogDir = logDir
			}

			setupLogging(verbose || cfg.Server.Verbose)
			slog.Info("storefront-relay", "version", version)

			if err := logger.Init(cfg.Server.LogDir); err != nil {
				return err
			}
			defer logger.CloseAll()

			a := app.New(cfg)
			srv := server.New(server.Options{
				Port:       cfg.Server.Port,
				Chat:       a.Chat,
				TrackOrder: a.TrackOrder,
				Stats:      stats.NewRecorder(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			fmt.Println()
			fmt.Printf("  Storefront relay is running on http://localhost:%d\n", cfg.Server.Port)
			fmt.Println()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				slog.Info("shutting down...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "port to listen on")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "write per-handler request logs to this directory")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file to load")

	return cmd
}

func lambdaCmd() *cobra.Command {
	var (
		function string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Serve one relay as an AWS Lambda function behind API Gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			setupLogging(verbose || cfg.Server.Verbose)

			h, err := app.New(cfg).Handler(function)
			if err != nil {
				return err
			}

			slog.Info("starting lambda", "function", function, "version", version)
			lambda.Start(serverless.NewLambdaHandler(h).Handle)
			return nil
		},
	}

	cmd.Flags().StringVarP(&function, "function", "f", os.Getenv("RELAY_FUNCTION"), "relay to serve: claude or track-order")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
