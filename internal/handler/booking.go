package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/game-slot-booking/internal/service"
)

// Plain-text bodies of POST /book that are not rule rejections.
const (
	MsgBooked        = "✅ Booking successful!"
	MsgSomethingWent = "⚠️ Something went wrong. Please try again."
)

const requestTimeout = 5 * time.Second

// BookingHandler serves the public booking surface.
type BookingHandler struct {
	Svc *service.BookingService
	Log *logrus.Logger
}

// NewBookingHandler constructs a BookingHandler and panics if a dependency is nil.
func NewBookingHandler(svc *service.BookingService, log *logrus.Logger) *BookingHandler {
	if svc == nil || log == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Log: log}
}

// Home handles GET / and renders the booking form.
func (h *BookingHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "booking_form.html", nil)
}

// Book handles POST /book.  The form is admitted by the booking service;
// rule rejections answer 400 with their message, anything else 500 with a
// generic message while the cause is logged.
func (h *BookingHandler) Book(c echo.Context) error {
	var req service.BookingRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, fmt.Errorf("%w: bind: %v", service.ErrMalformedRequest, err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if _, err := h.Svc.Admit(ctx, req); err != nil {
		var rej *service.RejectionError
		if errors.As(err, &rej) {
			return c.String(http.StatusBadRequest, rej.Error())
		}
		return h.fail(c, err)
	}
	return c.String(http.StatusOK, MsgBooked)
}

func (h *BookingHandler) fail(c echo.Context, err error) error {
	h.Log.WithError(err).WithField("path", c.Path()).Error("booking request failed")
	return c.String(http.StatusInternalServerError, MsgSomethingWent)
}

// ListBookings handles GET /v1/bookings.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	items, err := h.Svc.List(ctx)
	if err != nil {
		h.Log.WithError(err).Error("list bookings failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Slots handles GET /v1/slots?game_type=&date= and reports availability
// for every start time of that day.
func (h *BookingHandler) Slots(c echo.Context) error {
	gameType := c.QueryParam("game_type")
	date := c.QueryParam("date")

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	slots, err := h.Svc.Availability(ctx, gameType, date)
	if err != nil {
		if errors.Is(err, service.ErrMalformedRequest) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "game_type and date (YYYY-MM-DD) are required"})
		}
		h.Log.WithError(err).Error("slot availability failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"game_type": gameType,
		"date":      date,
		"capacity":  h.Svc.Rules().SlotCapacity,
		"slots":     slots,
	})
}
