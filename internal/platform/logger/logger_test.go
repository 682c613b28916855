package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadcrm/internal/platform/config"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json handler filters below level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, config.Log{Level: "warn", Format: "json"})
		l.Info("dropped")
		l.Warn("kept", "lead_id", "abc")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "kept", line["msg"])
		assert.Equal(t, "leadcrm", line["service"])
		assert.Equal(t, "abc", line["lead_id"])
	})

	t.Run("text handler", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithWriter(&buf, config.Log{Format: "TEXT"}).Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})
}
