package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradecore/matching-engine/pkg/errors"
	"github.com/tradecore/matching-engine/pkg/util"
)

func TestNewLogger(t *testing.T) {
	t.Run("default options", func(t *testing.T) {
		log, err := NewLogger()
		require.NoError(t, err)
		require.NotNil(t, log)
		assert.NotNil(t, log.GetZap())
	})

	t.Run("with options", func(t *testing.T) {
		log, err := NewLogger(
			WithLoggingLevel("debug"),
			WithOutputPaths([]string{"stdout"}),
			WithCallerTraceSkip(2),
		)
		require.NoError(t, err)

		log.Debug("debug message", NewField("key", "value"))
		log.Info("info message")
		log.Warn("warn message")
	})

	t.Run("invalid output path fails", func(t *testing.T) {
		_, err := NewLogger(WithOutputPaths([]string{"unknown-scheme://nope"}))
		assert.Error(t, err)
	})
}

func TestLogger_ErrorWithStackTrace(t *testing.T) {
	log, err := NewLogger(WithLoggingLevel("error"))
	require.NoError(t, err)

	// both traced and plain errors must be loggable
	log.Error(errors.NewTracer("traced").Wrap(assert.AnError))
	log.Error(assert.AnError, NewField("action", "test"))
}

func TestLogger_ContextRequestID(t *testing.T) {
	log, err := NewLogger(WithLoggingLevel("debug"))
	require.NoError(t, err)

	ctx := util.WithRequestID(context.Background(), "req-123")
	log.InfoContext(ctx, "with request id")
	log.WarnContext(ctx, "with request id")
	log.DebugContext(context.Background(), "without request id")
}

func TestLogger_WithFields(t *testing.T) {
	log, err := NewLogger()
	require.NoError(t, err)

	child := log.WithFields(NewField("component", "test"))
	require.NotNil(t, child)
	child.Info("from child logger")
}
