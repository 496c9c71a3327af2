package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/game-slot-booking/internal/model"
)

// SlotRow is the minimal projection read by the expiry sweep.  Date and
// Time are returned raw so rows written by older versions or by hand can
// be reported instead of aborting the sweep.
type SlotRow struct {
	ID   uint64
	Date string
	Time string
}

// BookingRepo provides data access to the bookings table.  The dialect is
// needed only for row locking: MySQL locks the slot rows it counts while
// SQLite relies on its single connection.
type BookingRepo struct {
	db      *sql.DB
	dialect string
}

// NewBookingRepo returns a new BookingRepo bound to the provided database.
func NewBookingRepo(db *sql.DB, dialect string) *BookingRepo {
	return &BookingRepo{db: db, dialect: dialect}
}

// DB exposes the underlying handle so callers can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CountBySlotTx counts bookings sharing the (gameType, date, clock) slot.
// On MySQL the matching index range is locked until the transaction ends
// so a concurrent admission for the same slot waits for this one.
func (r *BookingRepo) CountBySlotTx(ctx context.Context, tx *sql.Tx, gameType, date, clock string) (int, error) {
	q := `SELECT COUNT(*) FROM bookings WHERE game_type = ? AND date = ? AND time = ?`
	if r.dialect == "mysql" {
		q = `SELECT id FROM bookings WHERE game_type = ? AND date = ? AND time = ? FOR UPDATE`
		rows, err := tx.QueryContext(ctx, q, gameType, date, clock)
		if err != nil {
			return 0, err
		}
		defer rows.Close()
		n := 0
		for rows.Next() {
			n++
		}
		return n, rows.Err()
	}
	var n int
	if err := tx.QueryRowContext(ctx, q, gameType, date, clock).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateTx inserts b within tx and populates its generated ID.  The
// caller must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO bookings (game_type, date, time, duration, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.GameType, b.Date, b.Time, b.Duration, b.Message, b.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// SlotRowsTx reads id, date and time of every booking.  Rows are fully
// drained before returning so deletes may follow on the same transaction.
func (r *BookingRepo) SlotRowsTx(ctx context.Context, tx *sql.Tx) ([]SlotRow, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, date, time FROM bookings`)
	if err != nil {
		return nil, err
	}
	var out []SlotRow
	for rows.Next() {
		var s SlotRow
		if scanErr := rows.Scan(&s.ID, &s.Date, &s.Time); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		out = append(out, s)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	return out, rows.Err()
}

// DeleteByIDTx removes one booking inside tx.  Missing rows are not an
// error here; the sweep may race with an admin delete.
func (r *BookingRepo) DeleteByIDTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}

// DeleteByID removes one booking and returns ErrBookingNotFound when no
// row matched.
func (r *BookingRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// List returns every stored booking ordered by slot then id.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT id, game_type, date, time, duration, message, created_at
	           FROM bookings
	           ORDER BY date, time, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []model.Booking{}
	for rows.Next() {
		var b model.Booking
		var msg sql.NullString
		if err := rows.Scan(&b.ID, &b.GameType, &b.Date, &b.Time, &b.Duration, &msg, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Message = msg.String
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountByTime returns the number of bookings per start time for one game
// on one date.  Times without bookings are absent from the map.
func (r *BookingRepo) CountByTime(ctx context.Context, gameType, date string) (map[string]int, error) {
	const q = `SELECT time, COUNT(*) FROM bookings WHERE game_type = ? AND date = ? GROUP BY time`
	rows, err := r.db.QueryContext(ctx, q, gameType, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var clock string
		var n int
		if err := rows.Scan(&clock, &n); err != nil {
			return nil, err
		}
		counts[clock] = n
	}
	return counts, rows.Err()
}
