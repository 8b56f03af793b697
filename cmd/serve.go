package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/c14220110/poliklinik-antrian/config"
	"github.com/c14220110/poliklinik-antrian/internal/common/middlewares"
	"github.com/c14220110/poliklinik-antrian/internal/routes"
	"github.com/c14220110/poliklinik-antrian/pkg/events"
	"github.com/c14220110/poliklinik-antrian/pkg/storage/mariadb"
	"github.com/c14220110/poliklinik-antrian/ws"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Jalankan server API antrian",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "jalankan migrasi sebelum server dimulai")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.AppEnv, cfg.LogLevel)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mariadb.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if autoMigrate {
		if err := mariadb.MigrateUp(ctx, db, logger); err != nil {
			return err
		}
	}

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	var publisher events.Publisher = hub
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ tidak tersedia, event hanya dikirim lewat websocket")
		} else {
			defer amqpPub.Close()
			publisher = events.Multi{hub, amqpPub}
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = middlewares.NewValidator()

	e.Use(middlewares.Recovery(logger))
	e.Use(middlewares.RequestID())
	e.Use(middlewares.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middlewares.RequestIDHeader},
	}))

	routes.Init(e, routes.Deps{
		DB:        db,
		Config:    cfg,
		Location:  loc,
		Hub:       hub,
		Publisher: publisher,
		Logger:    logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("Server berjalan")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	logger.Info().Msg("Menghentikan server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("Server berhenti")
	return nil
}
