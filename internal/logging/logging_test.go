package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(true)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	SetVerbose(false)
	assert.Equal(t, zapcore.WarnLevel, level.Level())
}

// TestReplace checks that the level gate applies to replaced loggers that
// share the atomic level.
func TestReplace(t *testing.T) {
	prev := L()
	t.Cleanup(func() {
		Replace(prev)
		SetVerbose(false)
	})

	core, logs := observer.New(level)
	Replace(zap.New(core))

	S().Debugf("hidden %d", 1)
	S().Warnf("shown %d", 2)
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown 2", logs.All()[0].Message)

	SetVerbose(true)
	S().Debugf("now shown")
	assert.Equal(t, 2, logs.Len())
}
