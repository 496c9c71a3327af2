package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/game-slot-booking/internal/model"
	"github.com/iliyamo/game-slot-booking/internal/queue"
	"github.com/iliyamo/game-slot-booking/internal/repository"
)

// BookingService runs the admission check and the expiry sweep against a
// BookingRepo.
type BookingService struct {
	repo     *repository.BookingRepo
	rules    Rules
	loc      *time.Location
	log      *logrus.Logger
	pub      EventPublisher
	validate *validator.Validate
	now      func() time.Time
}

// Option customises a BookingService.
type Option func(*BookingService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *BookingService) { s.now = now }
}

// WithPublisher sets the publisher notified after each admission.
func WithPublisher(p EventPublisher) Option {
	return func(s *BookingService) { s.pub = p }
}

// NewBookingService wires the service.  loc is the zone submitted dates
// are read in; nil means time.Local.
func NewBookingService(repo *repository.BookingRepo, rules Rules, loc *time.Location, log *logrus.Logger, opts ...Option) *BookingService {
	if repo == nil || log == nil {
		panic("nil dependency passed to NewBookingService")
	}
	if loc == nil {
		loc = time.Local
	}
	s := &BookingService{
		repo:     repo,
		rules:    rules,
		loc:      loc,
		log:      log,
		pub:      NopPublisher{},
		validate: newValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the admission limits in effect.
func (s *BookingService) Rules() Rules { return s.rules }

// Admit sweeps expired bookings, then validates req and stores it.  It
// returns a *RejectionError for business-rule violations, an error
// wrapping ErrMalformedRequest for unreadable input, and any other error
// for storage failures.  Nothing is written unless every rule passes.
func (s *BookingService) Admit(ctx context.Context, req BookingRequest) (*model.Booking, error) {
	if _, err := s.Sweep(ctx); err != nil {
		return nil, err
	}

	p, err := parse(s.validate, req, s.loc)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	if err := s.rules.Check(p.Start, now, p.Duration); err != nil {
		return nil, err
	}

	b := &model.Booking{
		GameType:  p.GameType,
		Date:      p.Start.Format(DateLayout),
		Time:      p.Start.Format(TimeLayout),
		Duration:  p.Duration,
		Message:   p.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.insertWithinCapacity(ctx, b); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"game_type":  b.GameType,
		"slot":       b.Date + " " + b.Time,
		"duration":   b.Duration,
	}).Info("booking admitted")

	ev := queue.BookingCreatedEvent{
		EventID:   uuid.NewString(),
		BookingID: b.ID,
		GameType:  b.GameType,
		Date:      b.Date,
		Time:      b.Time,
		Duration:  b.Duration,
		Message:   b.Message,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
	if err := s.pub.PublishBookingCreated(ctx, ev); err != nil {
		s.log.WithError(err).WithField("booking_id", b.ID).Warn("booking event not published")
	}
	return b, nil
}

// insertWithinCapacity counts the slot and inserts in one transaction.
func (s *BookingService) insertWithinCapacity(ctx context.Context, b *model.Booking) error {
	tx, err := s.repo.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin admission: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	n, err := s.repo.CountBySlotTx(ctx, tx, b.GameType, b.Date, b.Time)
	if err != nil {
		return fmt.Errorf("count slot: %w", err)
	}
	if n >= s.rules.SlotCapacity {
		return s.rules.reject(ReasonSlotFull)
	}
	if err := s.repo.CreateTx(ctx, tx, b); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit admission: %w", err)
	}
	committed = true
	return nil
}

// List returns every stored booking, expired rows included until the next
// sweep.
func (s *BookingService) List(ctx context.Context) ([]model.Booking, error) {
	return s.repo.List(ctx)
}

// Availability reports booked and remaining places for each start time of
// date for gameType.  An unreadable date wraps ErrMalformedRequest.
func (s *BookingService) Availability(ctx context.Context, gameType, date string) ([]model.SlotAvailability, error) {
	if gameType == "" {
		return nil, fmt.Errorf("%w: game_type is required", ErrMalformedRequest)
	}
	day, err := ParseDate(date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	counts, err := s.repo.CountByTime(ctx, gameType, day.Format(DateLayout))
	if err != nil {
		return nil, err
	}
	times := s.rules.StartTimes()
	out := make([]model.SlotAvailability, 0, len(times))
	for _, clock := range times {
		booked := counts[clock]
		remaining := s.rules.SlotCapacity - booked
		if remaining < 0 {
			remaining = 0
		}
		out = append(out, model.SlotAvailability{Time: clock, Booked: booked, Remaining: remaining})
	}
	return out, nil
}

// Delete removes one booking by id.
func (s *BookingService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.WithField("booking_id", id).Info("booking deleted by admin")
	return nil
}
