package testlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imtest/pkg/logging"
)

func TestLog_AddAndCount(t *testing.T) {
	var log Log
	log.Add(LevelInfo, 1, "started")
	log.Add(LevelDebug, 2, "moving mouse")
	log.Add(LevelError, 3, "check failed\n")
	log.Add(LevelSilent, 4, "promoted to info")

	assert.Equal(t, 4, log.Len())
	assert.Equal(t, 2, log.Count(LevelInfo))
	assert.Equal(t, 1, log.Count(LevelError))
	assert.Equal(t, 0, log.Count(LevelWarning))
	assert.Equal(t, 0, log.Count(Level(42)))

	lines := log.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, "check failed", lines[2].Text)
	assert.Equal(t, "[0003] check failed", lines[2].String())
}

func TestLog_Extract(t *testing.T) {
	var log Log
	log.Add(LevelError, 1, "e")
	log.Add(LevelWarning, 1, "w")
	log.Add(LevelInfo, 1, "i")
	log.Add(LevelTrace, 1, "t")

	texts := func(lines []Line) []string {
		var out []string
		for _, l := range lines {
			out = append(out, l.Text)
		}
		return out
	}

	assert.Equal(t, []string{"e", "w"}, texts(log.Extract(LevelError, LevelWarning)))
	assert.Equal(t, []string{"i", "t"}, texts(log.Extract(LevelInfo, LevelTrace)))
	assert.Equal(t, "[0001] e\n[0001] w\n[0001] i\n", log.String(LevelInfo))

	log.Clear()
	assert.Zero(t, log.Len())
	assert.Zero(t, log.Count(LevelError))
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"silent", "Error", "WARNING", "info", "debug", "trace"} {
		_, err := ParseLevel(name)
		assert.NoError(t, err, name)
	}
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestLevel_LoggingLevel(t *testing.T) {
	assert.Equal(t, logging.LevelError, LevelError.LoggingLevel())
	assert.Equal(t, logging.LevelWarn, LevelWarning.LoggingLevel())
	assert.Equal(t, logging.LevelInfo, LevelInfo.LoggingLevel())
	assert.Equal(t, logging.LevelDebug, LevelTrace.LoggingLevel())
	assert.Equal(t, "Unknown", Level(-3).String())
}
