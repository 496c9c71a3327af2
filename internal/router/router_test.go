package router

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-slot-booking/internal/config"
	"github.com/iliyamo/game-slot-booking/internal/database"
	"github.com/iliyamo/game-slot-booking/internal/handler"
	"github.com/iliyamo/game-slot-booking/internal/repository"
	"github.com/iliyamo/game-slot-booking/internal/service"
)

func routeSet(e *echo.Echo) map[string]bool {
	out := map[string]bool{}
	for _, r := range e.Routes() {
		out[r.Method+" "+r.Path] = true
	}
	return out
}

func TestRegisterAllRoutes(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.DriverSQLite))

	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := service.NewBookingService(repository.NewBookingRepo(db, database.DriverSQLite),
		service.NewRules(service.DefaultRules), time.UTC, log)

	e := echo.New()
	RegisterRoutes(e, db)
	RegisterBooking(e, handler.NewBookingHandler(svc, log), nil, nil, nil)
	RegisterAdmin(e, handler.NewAdminHandler(config.Config{JWTSecret: "x"}, svc, log), "x", nil)

	routes := routeSet(e)
	for _, want := range []string{
		"GET /healthz",
		"GET /",
		"POST /book",
		"GET /v1/bookings",
		"GET /v1/slots",
		"POST /v1/admin/login",
		"POST /v1/admin/sweep",
		"DELETE /v1/admin/bookings/:id",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestOptionalMiddleware(t *testing.T) {
	assert.Nil(t, optional(nil))
	mw := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	assert.Len(t, optional(mw), 1)
}
