package log_test

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "equipstore/internal/log"
)

type line struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

func capture(t *testing.T, fn func()) []line {
	t.Helper()
	var buf bytes.Buffer
	stdlog.SetOutput(&buf)
	stdlog.SetFlags(0)
	defer func() {
		stdlog.SetOutput(os.Stderr)
		stdlog.SetFlags(stdlog.LstdFlags)
	}()
	fn()

	var out []line
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var l line
		require.NoError(t, json.Unmarshal([]byte(raw), &l), raw)
		out = append(out, l)
	}
	return out
}

func TestLevelsAreDistinct(t *testing.T) {
	lines := capture(t, func() {
		applog.Info(nil, "mail.logged", nil)
		applog.Audit(nil, "admin.inventory.save", map[string]any{"qty": 3})
		applog.Warn(nil, "shipping.no_weight_band", nil)
		applog.Security(nil, "rate.login.hit", nil)
		applog.Error(nil, "order.email_failed", errors.New("smtp down"), nil)
	})
	require.Len(t, lines, 5)

	levels := map[string]string{}
	for _, l := range lines {
		levels[l.Action] = l.Level
	}
	assert.Equal(t, map[string]string{
		"mail.logged":             "info",
		"admin.inventory.save":    "audit",
		"shipping.no_weight_band": "warn",
		"rate.login.hit":          "security",
		"order.email_failed":      "error",
	}, levels)
	assert.Equal(t, "smtp down", lines[4].Err)
	assert.EqualValues(t, 3, lines[1].Fields["qty"])
}
