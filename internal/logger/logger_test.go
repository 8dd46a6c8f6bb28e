package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init("development", "debug"))
	assert.Equal(t, zapcore.DebugLevel, Level())
	assert.True(t, zap.L().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, SetLevel("error"))
	assert.False(t, zap.L().Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, SetLevel(""))
	assert.Equal(t, zapcore.ErrorLevel, Level())

	assert.Error(t, SetLevel("loud"))
	assert.Error(t, Init("production", "loud"))
}
