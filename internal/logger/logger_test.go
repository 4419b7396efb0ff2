package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)
}

func TestLevelFiltersDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Writer: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestWithItemCarriesContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", Writer: &buf})
	require.NoError(t, err)

	log.WithItem("/etc/app.conf", "lineinfile").Info("converged")

	out := buf.String()
	assert.Contains(t, out, "/etc/app.conf")
	assert.Contains(t, out, "lineinfile")
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	var log *Logger
	log.Info("no-op")
	log.Error(nil, "no-op")
	assert.Nil(t, log.WithItem("/x", "touch"))
}
