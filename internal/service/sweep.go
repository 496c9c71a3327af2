package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Sweep deletes every booking whose slot start lies strictly before now
// and returns how many rows were removed.  Rows whose date or time cannot
// be parsed are logged and left in place.
func (s *BookingService) Sweep(ctx context.Context) (int, error) {
	now := s.now()

	tx, err := s.repo.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin sweep: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := s.repo.SlotRowsTx(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("load bookings: %w", err)
	}
	deleted := 0
	for _, row := range rows {
		start, err := ParseSlot(row.Date, row.Time, s.loc)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"booking_id": row.ID,
				"date":       row.Date,
				"time":       row.Time,
			}).Warn("sweep: skipping unparseable booking")
			continue
		}
		if !start.Before(now) {
			continue
		}
		if err := s.repo.DeleteByIDTx(ctx, tx, row.ID); err != nil {
			return 0, fmt.Errorf("delete booking %d: %w", row.ID, err)
		}
		deleted++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sweep: %w", err)
	}
	committed = true

	if deleted > 0 {
		s.log.WithField("deleted", deleted).Info("expired bookings removed")
	}
	return deleted, nil
}
