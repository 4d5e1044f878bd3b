package slog_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	rawslog "log/slog"

	"github.com/stretchr/testify/require"

	"github.com/sparktype-project/sparkblocks/pkg/logger/slog"
)

type testMethod struct {
	fn    func(msg string, args ...any)
	level rawslog.Level
}

func TestSlogHandler(t *testing.T) {
	buffer := bytes.NewBuffer([]byte{})

	// level needs to be debug so every method logs
	handler := rawslog.NewJSONHandler(buffer, &rawslog.HandlerOptions{Level: rawslog.LevelDebug})
	log := slog.New(handler)

	methods := []testMethod{
		{fn: log.Error, level: rawslog.LevelError},
		{fn: log.Warn, level: rawslog.LevelWarn},
		{fn: log.Info, level: rawslog.LevelInfo},
		{fn: log.Debug, level: rawslog.LevelDebug},
	}

	for _, m := range methods {
		t.Run(fmt.Sprintf("level %s", m.level.String()), func(t *testing.T) {
			buffer.Reset()
			m.fn("codec event", "line", 7)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
			require.Equal(t, m.level.String(), entry["level"])
			require.Equal(t, "codec event", entry["msg"])
			require.Equal(t, float64(7), entry["line"])
		})
	}
}
