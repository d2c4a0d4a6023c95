package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, lvl, err := New("warn", format)
		require.NoError(t, err, format)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel), "%s: info should be off at warn", format)
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

		lvl.SetLevel(zapcore.DebugLevel)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel), "%s: atomic level should apply live", format)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, _, err := New("loud", "console")
	assert.Error(t, err)

	_, _, err = New("info", "xml")
	assert.Error(t, err)
}
