package logging

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/Cyclone1070/precious/internal/config"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Settings)
		want   pterm.LogLevel
	}{
		{"default", func(*config.Settings) {}, pterm.LogLevelWarn},
		{"verbose", func(s *config.Settings) { s.Verbose = true }, pterm.LogLevelInfo},
		{"debug", func(s *config.Settings) { s.Debug = true }, pterm.LogLevelDebug},
		{"debug beats verbose", func(s *config.Settings) { s.Debug = true; s.Verbose = true }, pterm.LogLevelDebug},
		{"quiet", func(s *config.Settings) { s.Quiet = true }, pterm.LogLevelError},
		{"verbose beats quiet", func(s *config.Settings) { s.Quiet = true; s.Verbose = true }, pterm.LogLevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			tt.modify(s)
			assert.Equal(t, tt.want, Level(s))
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.DefaultSettings(), &buf)

	logger.Info("informational")
	logger.Warn("careful")

	assert.NotContains(t, buf.String(), "informational")
	assert.Contains(t, buf.String(), "careful")
}

func TestNewDebug(t *testing.T) {
	var buf bytes.Buffer
	s := config.DefaultSettings()
	s.Debug = true
	logger := New(s, &buf)

	logger.Debug("planned command", logger.Args("name", "gofmt"))

	assert.Contains(t, buf.String(), "planned command")
	assert.Contains(t, buf.String(), "gofmt")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.CanPrint(pterm.LogLevelError))
}
