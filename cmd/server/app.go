package main

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/game-slot-booking/internal/config"
	"github.com/iliyamo/game-slot-booking/internal/database"
	"github.com/iliyamo/game-slot-booking/internal/logging"
	"github.com/iliyamo/game-slot-booking/internal/repository"
	"github.com/iliyamo/game-slot-booking/internal/service"
)

// app bundles what every database-backed command needs.
type app struct {
	cfg config.Config
	log *logrus.Logger
	db  *sql.DB
	svc *service.BookingService
}

// openApp loads configuration, opens the database and builds the booking
// service.  newPub, when non-nil, supplies the event publisher.
func openApp(newPub func(*logrus.Logger) service.EventPublisher) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var opts []service.Option
	if newPub != nil {
		opts = append(opts, service.WithPublisher(newPub(log)))
	}
	repo := repository.NewBookingRepo(db, cfg.DBDriver)
	svc := service.NewBookingService(repo, service.NewRules(cfg.Rules), loc, log, opts...)
	return &app{cfg: cfg, log: log, db: db, svc: svc}, nil
}

func (a *app) Close() { _ = a.db.Close() }
