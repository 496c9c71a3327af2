package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/game-slot-booking/internal/config"
)

func TestNewRulesZeroConfigUsesDefaults(t *testing.T) {
	r := NewRules(config.RulesConfig{})
	assert.Equal(t, 7, r.WindowDays)
	assert.Equal(t, 10, r.OpenHour)
	assert.Equal(t, 23, r.CloseHour)
	assert.Equal(t, 5, r.SlotCapacity)
	assert.Equal(t, 30, r.MinuteStep)
}

func TestRulesMessagesFollowConfig(t *testing.T) {
	r := NewRules(config.RulesConfig{WindowDays: 3, OpenHour: 9, CloseHour: 21, SlotCapacity: 2, MinDuration: 2, MinuteStep: 15})

	assert.Equal(t, "❌ You can only book within 3 days from today.", r.reject(ReasonBeyondRange).Error())
	assert.Equal(t, "❌ Minimum booking duration is 2 hours.", r.reject(ReasonDuration).Error())
	assert.Equal(t, "❌ Booking time must be in 15-minute intervals (e.g., 09:00, 09:15, 09:30, 09:45).", r.reject(ReasonInterval).Error())
	assert.Equal(t, "❌ Booking allowed only between 9:00 AM and 9:00 PM.", r.reject(ReasonHours).Error())
	assert.Equal(t, "❌ All 2 slots for this game and time are already booked.", r.reject(ReasonSlotFull).Error())
}

func TestRejectionErrorIs(t *testing.T) {
	r := NewRules(DefaultRules)
	err := r.reject(ReasonSlotFull)
	assert.ErrorIs(t, err, ErrSlotFull)
	assert.NotErrorIs(t, err, ErrPastSlot)
}

func TestStartTimes(t *testing.T) {
	r := NewRules(DefaultRules)
	times := r.StartTimes()
	assert.Len(t, times, 26)
	assert.Equal(t, "10:00", times[0])
	assert.Equal(t, "22:30", times[len(times)-1])
}
