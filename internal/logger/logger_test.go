package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  zapcore.Level
	}{
		{"dev", "debug", zapcore.DebugLevel},
		{"prod", "warn", zapcore.WarnLevel},
		{"dev", "", zapcore.InfoLevel},
		{"production", "ERROR", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			log, err := New(tt.env, tt.level)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("dev", "loud")
	assert.Error(t, err)
}
