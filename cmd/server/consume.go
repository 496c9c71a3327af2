package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/game-slot-booking/internal/config"
	"github.com/iliyamo/game-slot-booking/internal/logging"
	"github.com/iliyamo/game-slot-booking/internal/queue"
)

func newConsumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Append booking.created events to the booking log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			evCfg, err := config.LoadEventsConfig()
			if err != nil {
				return fmt.Errorf("load events config: %w", err)
			}
			if evCfg.URL == "" {
				return errors.New("RABBITMQ_URL is required")
			}
			log := logging.New(cfg.LogLevel, cfg.LogFormat)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err = queue.NewBookingLogConsumer(evCfg, log).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
