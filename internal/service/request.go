package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Layouts of the stored date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Submitted fields may drop leading zeros ("2025-1-5", "9:5"); they are
// canonicalised to DateLayout and TimeLayout before storage.
const (
	inputDateLayout = "2006-1-2"
	inputTimeLayout = "15:4"
)

// BookingRequest is the raw form submitted to POST /book.  Duration stays a
// string so a non-integer value is reported as a malformed request rather
// than a binding error.
type BookingRequest struct {
	GameType string `form:"game_type" json:"game_type" validate:"required,max=100"`
	Date     string `form:"date" json:"date" validate:"required"`
	Time     string `form:"time" json:"time" validate:"required"`
	Duration string `form:"duration" json:"duration" validate:"required"`
	Message  string `form:"message" json:"message"`
}

// parsedRequest is a BookingRequest after step 1 of admission.
type parsedRequest struct {
	GameType string
	Start    time.Time
	Duration int
	Message  string
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// parse validates the form and reads the slot start in loc.  Every failure
// wraps ErrMalformedRequest.
func parse(v *validator.Validate, req BookingRequest, loc *time.Location) (parsedRequest, error) {
	req.GameType = strings.TrimSpace(req.GameType)
	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return parsedRequest{}, fmt.Errorf("%w: %s failed %q", ErrMalformedRequest, verrs[0].Field(), verrs[0].Tag())
		}
		return parsedRequest{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	duration, err := strconv.Atoi(strings.TrimSpace(req.Duration))
	if err != nil {
		return parsedRequest{}, fmt.Errorf("%w: duration: %v", ErrMalformedRequest, err)
	}
	start, err := ParseSlot(req.Date, req.Time, loc)
	if err != nil {
		return parsedRequest{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return parsedRequest{
		GameType: req.GameType,
		Start:    start,
		Duration: duration,
		Message:  req.Message,
	}, nil
}

// ParseSlot reads a stored or submitted date and time in loc.
func ParseSlot(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(inputDateLayout+" "+inputTimeLayout, strings.TrimSpace(date)+" "+strings.TrimSpace(clock), loc)
}

// ParseDate reads a stored or submitted date in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(inputDateLayout, strings.TrimSpace(date), loc)
}
