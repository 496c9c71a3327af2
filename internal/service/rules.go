package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/game-slot-booking/internal/config"
)

// Reason identifies which admission rule rejected a booking.
type Reason string

const (
	ReasonPast        Reason = "past"
	ReasonBeyondRange Reason = "beyond_window"
	ReasonDuration    Reason = "duration"
	ReasonInterval    Reason = "interval"
	ReasonHours       Reason = "hours"
	ReasonSlotFull    Reason = "slot_full"
)

// RejectionError is a business-rule violation.  Message is shown to the
// booker verbatim.  Two RejectionErrors match under errors.Is when their
// reasons are equal, so the sentinels below work with configured messages.
type RejectionError struct {
	Reason  Reason
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return string(e.Reason)
	}
	return e.Message
}

func (e *RejectionError) Is(target error) bool {
	t, ok := target.(*RejectionError)
	return ok && t.Reason == e.Reason
}

var (
	ErrPastSlot      = &RejectionError{Reason: ReasonPast}
	ErrBeyondWindow  = &RejectionError{Reason: ReasonBeyondRange}
	ErrShortDuration = &RejectionError{Reason: ReasonDuration}
	ErrMisaligned    = &RejectionError{Reason: ReasonInterval}
	ErrOutsideHours  = &RejectionError{Reason: ReasonHours}
	ErrSlotFull      = &RejectionError{Reason: ReasonSlotFull}
)

// ErrMalformedRequest wraps any failure to read the submitted form.  It is
// not a rejection: the handler answers it with the generic server error.
var ErrMalformedRequest = errors.New("malformed booking request")

// Rules holds the admission limits and the messages derived from them.
type Rules struct {
	WindowDays   int
	OpenHour     int
	CloseHour    int
	SlotCapacity int
	MinDuration  int
	MinuteStep   int

	messages map[Reason]string
}

// DefaultRules are the limits used when nothing is configured.
var DefaultRules = config.RulesConfig{
	WindowDays:   7,
	OpenHour:     10,
	CloseHour:    23,
	SlotCapacity: 5,
	MinDuration:  1,
	MinuteStep:   30,
}

// NewRules builds Rules from configuration.  A zero RulesConfig selects
// DefaultRules.
func NewRules(cfg config.RulesConfig) Rules {
	if cfg == (config.RulesConfig{}) {
		cfg = DefaultRules
	}
	if cfg.MinuteStep <= 0 {
		cfg.MinuteStep = DefaultRules.MinuteStep
	}
	r := Rules{
		WindowDays:   cfg.WindowDays,
		OpenHour:     cfg.OpenHour,
		CloseHour:    cfg.CloseHour,
		SlotCapacity: cfg.SlotCapacity,
		MinDuration:  cfg.MinDuration,
		MinuteStep:   cfg.MinuteStep,
	}
	unit := "hour"
	if r.MinDuration != 1 {
		unit = "hours"
	}
	r.messages = map[Reason]string{
		ReasonPast:        "❌ You cannot book a past date or time.",
		ReasonBeyondRange: fmt.Sprintf("❌ You can only book within %d days from today.", r.WindowDays),
		ReasonDuration:    fmt.Sprintf("❌ Minimum booking duration is %d %s.", r.MinDuration, unit),
		ReasonInterval:    fmt.Sprintf("❌ Booking time must be in %d-minute intervals (e.g., %s).", r.MinuteStep, strings.Join(r.exampleTimes(4), ", ")),
		ReasonHours:       fmt.Sprintf("❌ Booking allowed only between %s and %s.", clockLabel(r.OpenHour), clockLabel(r.CloseHour)),
		ReasonSlotFull:    fmt.Sprintf("❌ All %d slots for this game and time are already booked.", r.SlotCapacity),
	}
	return r
}

func (r Rules) reject(reason Reason) error {
	return &RejectionError{Reason: reason, Message: r.messages[reason]}
}

// Check applies the time and duration rules to a parsed start time in
// order; the first failing rule wins.  Capacity is checked separately against storage.
func (r Rules) Check(start, now time.Time, duration int) error {
	if start.Before(now) {
		return r.reject(ReasonPast)
	}
	if start.After(now.AddDate(0, 0, r.WindowDays)) {
		return r.reject(ReasonBeyondRange)
	}
	if duration < r.MinDuration {
		return r.reject(ReasonDuration)
	}
	if start.Minute()%r.MinuteStep != 0 {
		return r.reject(ReasonInterval)
	}
	if start.Hour() < r.OpenHour || start.Hour() >= r.CloseHour {
		return r.reject(ReasonHours)
	}
	return nil
}

// StartTimes lists every bookable start time of a day, e.g. 10:00 to 22:30.
func (r Rules) StartTimes() []string {
	var out []string
	for m := r.OpenHour * 60; m < r.CloseHour*60; m += r.MinuteStep {
		out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return out
}

func (r Rules) exampleTimes(n int) []string {
	all := r.StartTimes()
	if len(all) > n {
		all = all[:n]
	}
	return all
}

func clockLabel(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("3:04 PM")
}
