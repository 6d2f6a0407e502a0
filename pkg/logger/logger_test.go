package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit_AppliesLevel(t *testing.T) {
	t.Cleanup(func() { _ = SetLevel("warn") })

	Init("splitora", "prod", "error")
	assert.Equal(t, zapcore.ErrorLevel, Level())
	assert.False(t, L().Core().Enabled(zapcore.WarnLevel))

	Init("splitora", "prod", "bogus")
	assert.Equal(t, zapcore.ErrorLevel, Level(), "invalid level keeps the current one")
}

func TestSetLevel_AffectsDerivedLoggers(t *testing.T) {
	t.Cleanup(func() { _ = SetLevel("warn") })

	Init("splitora", "dev", "warn")
	child := Named("session_client")
	assert.False(t, child.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, SetLevel("debug"))
	assert.True(t, child.Core().Enabled(zapcore.DebugLevel))

	assert.Error(t, SetLevel("loud"))
}
