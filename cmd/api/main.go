package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelagency/internal/app"
	"travelagency/internal/config"
	"travelagency/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.App.LogLevel, cfg.App.LogFormat)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("init app")
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.WithError(err).Warn("close app")
		}
	}()

	log.WithFields(logrus.Fields{
		"env":                    cfg.App.Env,
		"gateway_production":     cfg.Gateway.IsProduction,
		"signature_verification": cfg.Gateway.IsProduction,
		"webhook_url":            cfg.WebhookURL(),
		"finish_url":             cfg.FinishURL(),
		"dev_endpoints":          cfg.DevEndpointsEnabled(),
	}).Info("payment gateway configured")
	if !cfg.Gateway.IsProduction {
		log.Warn("webhook signature verification is disabled outside production")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown http server")
		}
	}
}
