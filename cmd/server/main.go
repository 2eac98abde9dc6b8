package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/config"
	"github.com/PGMA10/rrak-website/internal/database"
	"github.com/PGMA10/rrak-website/internal/router"
	"github.com/PGMA10/rrak-website/pkg/cloudinary"
	"github.com/PGMA10/rrak-website/pkg/mailer"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.Session.Secret == config.DefaultSessionSecret {
		log.Warn().Msg("SESSION_SECRET not set - using the built-in development secret")
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	images := cloudinary.Disabled()
	if cfg.Cloudinary.Enabled() {
		images, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatal().Err(err).Msg("cloudinary")
		}
	} else {
		log.Warn().Msg("CLOUDINARY_* not set - blog cover uploads disabled")
	}
	if cfg.Admin.Password == "" {
		log.Warn().Msg("ADMIN_PASSWORD not set - admin login will fail")
	}

	app := router.Setup(cfg, db, router.Deps{
		Mailer: mailer.New(cfg.Mail.SendGridAPIKey, cfg.Mail.FromEmail, cfg.Mail.FromName),
		Images: images,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go app.Sessions.RunJanitor(ctx, time.Hour)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Server.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	stop()
	app.Notifier.Wait()
	log.Info().Msg("server stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.Server.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
