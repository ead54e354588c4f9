package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/application/logging"
	"github.com/andrescamacho/focusplanner/internal/application/mediator"
)

type entry struct {
	level    string
	message  string
	metadata map[string]interface{}
}

type recordingLogger struct {
	entries []entry
}

func (r *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	r.entries = append(r.entries, entry{level: level, message: message, metadata: metadata})
}

type sampleQuery struct{}

func TestMiddleware_LogsSuccessAtDebug(t *testing.T) {
	rec := &recordingLogger{}
	ctx := logging.WithLogger(context.Background(), rec)
	next := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "ok", nil
	}

	resp, err := logging.Middleware()(ctx, &sampleQuery{}, next)

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, logging.LevelDebug, rec.entries[0].level)
	assert.Equal(t, "sampleQuery", rec.entries[0].metadata["request"])
}

func TestMiddleware_LogsFailureAtError(t *testing.T) {
	rec := &recordingLogger{}
	ctx := logging.WithLogger(context.Background(), rec)
	next := func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	}

	_, err := logging.Middleware()(ctx, &sampleQuery{}, next)

	require.Error(t, err)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, logging.LevelError, rec.entries[0].level)
	assert.Equal(t, "boom", rec.entries[0].metadata["error"])
}

func TestLoggerFromContext_FallsBackToNoOp(t *testing.T) {
	logger := logging.LoggerFromContext(context.Background())

	assert.NotPanics(t, func() { logger.Log(logging.LevelInfo, "dropped", nil) })
}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "sampleQuery", logging.RequestName(&sampleQuery{}))
	assert.Equal(t, "UnknownRequest", logging.RequestName(nil))
}
