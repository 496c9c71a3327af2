package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutputLevels(t *testing.T) {
	l := NewWithOutput("debug", "text", &bytes.Buffer{})
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l = NewWithOutput("nonsense", "text", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNewWithOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("info", "json", &buf)
	l.WithField("booking_id", 7).Info("booking created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booking created", entry["msg"])
	assert.EqualValues(t, 7, entry["booking_id"])
}
