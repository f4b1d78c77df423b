package internal

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	level, ok := ParseLogLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, LogLevelDebug, level)

	_, ok = ParseLogLevel("verbose")
	assert.False(t, ok)
}

func TestLoggerLevelsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	flags := log.Flags()
	log.SetFlags(0)
	defer log.SetFlags(flags)

	logger := NewLogger(LogLevelInfo).WithComponent("server")
	logger.Debug("hidden")
	logger.Info("listening on %s", ":8080")

	assert.Equal(t, "[INFO] [server] listening on :8080\n", buf.String())
	assert.Equal(t, LogLevelInfo, logger.GetLevel())
}
