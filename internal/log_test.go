package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"ERROR", LogLevelError},
		{"warn", LogLevelWarn},
		{"Warning", LogLevelWarn},
		{"DEBUG", LogLevelDebug},
		{"TRACE", LogLevelDebug},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, ParseLevel(test.input), "input %q", test.input)
	}
}

func TestLoggerLevelGate(t *testing.T) {
	logger := NewLogger(LogLevelWarn, "json")
	assert.Equal(t, LogLevelWarn, logger.GetLevel())
	assert.True(t, logger.Zap().Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Zap().Core().Enabled(zapcore.InfoLevel))
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	logger := NewNopLogger().With("component", "test")
	logger.Info("hello %s", "world")
	logger.Error("oops %d", 1)
	_ = logger.Sync()
}
