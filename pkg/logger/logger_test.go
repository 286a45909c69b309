package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetReturnsUsableLogger(t *testing.T) {
	log := Get()
	require.NotNil(t, log)

	// Logging must not panic and the global must be stable.
	log.Info("pool diagnostics", zap.Int("list", 3))
	assert.Same(t, log, Get())
}

func TestInvalidLevelRejected(t *testing.T) {
	_, err := newLogger(Config{Level: "loudest", Encoding: "json"})
	assert.Error(t, err)
}

func TestWithAddsFields(t *testing.T) {
	child := With(zap.String("component", "varlen_pool"))
	require.NotNil(t, child)
	child.Debug("buffer created")
}
