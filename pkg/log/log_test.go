package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithValueCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := &Logger{zap.New(core)}

	ctx := logger.WithValue(context.Background(), zap.String("saga_id", "abc"))
	logger.WithContext(ctx).Info("step done")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "abc", entries[0].ContextMap()["saga_id"])
	}
}

func TestWithContextFallsBack(t *testing.T) {
	logger := NewNop()
	assert.Same(t, logger, logger.WithContext(context.Background()))
}
