package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sebdah/goldie/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-slot-booking/internal/config"
	"github.com/iliyamo/game-slot-booking/internal/database"
	"github.com/iliyamo/game-slot-booking/internal/middleware"
	"github.com/iliyamo/game-slot-booking/internal/repository"
	"github.com/iliyamo/game-slot-booking/internal/service"
	"github.com/iliyamo/game-slot-booking/internal/utils"
)

var fixedNow = time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

const testSecret = "handler-test-secret"

type server struct {
	e   *echo.Echo
	svc *service.BookingService
}

func newServer(t *testing.T) *server {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "handler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.DriverSQLite))

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := repository.NewBookingRepo(db, database.DriverSQLite)
	svc := service.NewBookingService(repo, service.NewRules(service.DefaultRules), time.UTC, log,
		service.WithClock(func() time.Time { return fixedNow }))

	hash, err := utils.HashPassword("s3cret", 4)
	require.NoError(t, err)
	cfg := config.Config{AdminUsername: "admin", AdminPasswordHash: hash, JWTSecret: testSecret, AdminTokenTTLMin: 5}

	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	b := NewBookingHandler(svc, log)
	e.GET("/", b.Home)
	e.POST("/book", b.Book)
	e.GET("/v1/bookings", b.ListBookings)
	e.GET("/v1/slots", b.Slots)
	e.GET("/healthz", Health(db))

	a := NewAdminHandler(cfg, svc, log)
	e.POST("/v1/admin/login", a.Login)
	admin := e.Group("/v1/admin", middleware.AdminAuth(testSecret))
	admin.POST("/sweep", a.Sweep)
	admin.DELETE("/bookings/:id", a.DeleteBooking)

	return &server{e: e, svc: svc}
}

func (s *server) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) book(form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return s.do(req)
}

func validForm() url.Values {
	return url.Values{
		"game_type": {"Chess"},
		"date":      {"2025-01-10"},
		"time":      {"14:00"},
		"duration":  {"1"},
		"message":   {"see you there"},
	}
}

func (s *server) adminToken(t *testing.T) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/login", strings.NewReader(`{"username":"admin","password":"s3cret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestHomeRendersForm(t *testing.T) {
	s := newServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")

	g := goldie.New(t)
	g.Assert(t, "booking_form", rec.Body.Bytes())
}

func TestBookSuccess(t *testing.T) {
	s := newServer(t)
	rec := s.book(validForm())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MsgBooked, rec.Body.String())

	list, err := s.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "see you there", list[0].Message)
}

func TestBookRejections(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"past", "date", "2025-01-07", "❌ You cannot book a past date or time."},
		{"beyond window", "date", "2025-01-16", "❌ You can only book within 7 days from today."},
		{"short", "duration", "0", "❌ Minimum booking duration is 1 hour."},
		{"misaligned", "time", "14:15", "❌ Booking time must be in 30-minute intervals (e.g., 10:00, 10:30, 11:00, 11:30)."},
		{"single-digit minute", "time", "14:5", "❌ Booking time must be in 30-minute intervals (e.g., 10:00, 10:30, 11:00, 11:30)."},
		{"outside hours", "time", "23:00", "❌ Booking allowed only between 10:00 AM and 11:00 PM."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newServer(t)
			form := validForm()
			form.Set(tc.field, tc.value)
			rec := s.book(form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, rec.Body.String())
		})
	}
}

func TestBookSlotFull(t *testing.T) {
	s := newServer(t)
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, s.book(validForm()).Code)
	}
	rec := s.book(validForm())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "❌ All 5 slots for this game and time are already booked.", rec.Body.String())

	other := validForm()
	other.Set("game_type", "Carrom")
	assert.Equal(t, http.StatusOK, s.book(other).Code)
}

func TestBookMalformedIsGenericError(t *testing.T) {
	for _, field := range []string{"date", "time", "duration", "game_type"} {
		t.Run(field, func(t *testing.T) {
			s := newServer(t)
			form := validForm()
			form.Set(field, "")
			if field != "game_type" {
				form.Set(field, "nope")
			}
			rec := s.book(form)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, MsgSomethingWent, rec.Body.String())
		})
	}
}

func TestListBookings(t *testing.T) {
	s := newServer(t)
	require.Equal(t, http.StatusOK, s.book(validForm()).Code)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/bookings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []struct {
			GameType string `json:"game_type"`
			Date     string `json:"date"`
			Time     string `json:"time"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Chess", body.Items[0].GameType)
	assert.Equal(t, "2025-01-10", body.Items[0].Date)
	assert.Equal(t, "14:00", body.Items[0].Time)
}

func TestSlots(t *testing.T) {
	s := newServer(t)
	require.Equal(t, http.StatusOK, s.book(validForm()).Code)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/v1/slots?game_type=Chess&date=2025-01-10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Capacity int `json:"capacity"`
		Slots    []struct {
			Time      string `json:"time"`
			Booked    int    `json:"booked"`
			Remaining int    `json:"remaining"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Capacity)
	require.Len(t, body.Slots, 26)
	for _, sl := range body.Slots {
		if sl.Time == "14:00" {
			assert.Equal(t, 1, sl.Booked)
			assert.Equal(t, 4, sl.Remaining)
		}
	}

	bad := s.do(httptest.NewRequest(http.MethodGet, "/v1/slots?game_type=Chess&date=tomorrow", nil))
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/login", strings.NewReader(`{"username":"admin","password":"wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)
}

func TestAdminSweepAndDelete(t *testing.T) {
	s := newServer(t)
	require.Equal(t, http.StatusOK, s.book(validForm()).Code)
	token := s.adminToken(t)

	unauth := s.do(httptest.NewRequest(http.MethodPost, "/v1/admin/sweep", nil))
	assert.Equal(t, http.StatusUnauthorized, unauth.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/sweep", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":0}`, rec.Body.String())

	list, err := s.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	del := func(id string) int {
		req := httptest.NewRequest(http.MethodDelete, "/v1/admin/bookings/"+id, nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		return s.do(req).Code
	}
	assert.Equal(t, http.StatusBadRequest, del("abc"))
	assert.Equal(t, http.StatusNoContent, del("1"))
	assert.Equal(t, http.StatusNotFound, del("1"))
}
