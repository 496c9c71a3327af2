package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/game-slot-booking/internal/config"
	"github.com/iliyamo/game-slot-booking/internal/handler"
	"github.com/iliyamo/game-slot-booking/internal/middleware"
	"github.com/iliyamo/game-slot-booking/internal/router"
	"github.com/iliyamo/game-slot-booking/internal/service"
)

const shutdownGrace = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	evCfg, err := config.LoadEventsConfig()
	if err != nil {
		return fmt.Errorf("load events config: %w", err)
	}
	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		return fmt.Errorf("load rate limit config: %w", err)
	}
	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		return fmt.Errorf("load cache config: %w", err)
	}
	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		return fmt.Errorf("load redis config: %w", err)
	}

	a, err := openApp(func(log *logrus.Logger) service.EventPublisher {
		return service.NewPublisher(evCfg, log)
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if n, err := a.svc.Sweep(ctx); err != nil {
		return fmt.Errorf("initial sweep: %w", err)
	} else if n > 0 {
		a.log.WithField("deleted", n).Info("expired bookings removed at startup")
	}

	rdb := config.NewRedisClient(redisCfg)
	if rdb != nil {
		defer rdb.Close()
	} else if redisCfg.Enabled {
		a.log.WithField("addr", redisCfg.Addr).Warn("redis unreachable; rate limit and cache disabled")
	}

	renderer, err := handler.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Use(middleware.RequestLogger(a.log))

	invalidate := middleware.NewCacheInvalidator(cacheCfg, rdb, a.log)
	router.RegisterRoutes(e, a.db)
	router.RegisterBooking(e,
		handler.NewBookingHandler(a.svc, a.log),
		middleware.NewTokenBucket(rlCfg, rdb, a.log),
		middleware.NewRedisCache(cacheCfg, rdb, a.log),
		invalidate,
	)
	if a.cfg.AdminEnabled() {
		router.RegisterAdmin(e, handler.NewAdminHandler(a.cfg, a.svc, a.log), a.cfg.JWTSecret, invalidate)
	} else {
		a.log.Info("ADMIN_PASSWORD_HASH not set; admin routes disabled")
	}

	addr := ":" + a.cfg.Port
	errCh := make(chan error, 1)
	go func() {
		a.log.WithFields(logrus.Fields{"addr": addr, "env": a.cfg.Env, "driver": a.cfg.DBDriver}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
