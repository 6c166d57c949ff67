// Command mockapi serves an in-memory FoodVerse backend for local development.
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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/foodverse/foodverse/internal/core/logging"
	"github.com/foodverse/foodverse/internal/mockapi"
)

func main() {
	var (
		addr     string
		secret   string
		seed     bool
		logLevel string
	)

	app := &cli.Command{
		Name:  "mockapi",
		Usage: "Run a fake FoodVerse REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Sources:     cli.EnvVars("FOODVERSE_MOCKAPI_ADDR"),
				Value:       ":7000",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "secret",
				Usage:       "JWT signing secret",
				Sources:     cli.EnvVars("FOODVERSE_MOCKAPI_SECRET"),
				Destination: &secret,
			},
			&cli.BoolFlag{
				Name:        "seed",
				Usage:       "create demo accounts, stores and food bags",
				Value:       true,
				Destination: &seed,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       "info",
				Destination: &logLevel,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("parse log level: %w", err)
			}
			logger := logging.Tag(
				zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
					Level(level).
					With().Timestamp().Logger(),
				"mockapi",
			)

			if level > zerolog.DebugLevel {
				gin.SetMode(gin.ReleaseMode)
			}

			srv := mockapi.New(mockapi.Config{Secret: secret, Logger: logger})
			if seed {
				if err := srv.Seed(); err != nil {
					return err
				}
				logger.Info().
					Str("consumer", mockapi.SeedConsumerEmail).
					Str("business", mockapi.SeedBusinessEmail).
					Str("admin", mockapi.SeedAdminEmail).
					Str("password", mockapi.SeedPassword).
					Msg("seeded demo accounts")
			}

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", addr).Str("base", mockapi.BasePath).Msg("listening")
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info().Msg("shutting down")
			return httpSrv.Shutdown(shutdownCtx)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("mockapi failed")
		os.Exit(1)
	}
}
