package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitWriter(t *testing.T) {
	t.Run("debug level writes debug lines with fields", func(t *testing.T) {
		var buf bytes.Buffer
		InitWriter(&buf, "debug")

		WithField("path", ".env").Debug("read file")
		out := buf.String()
		if !strings.Contains(out, " D read file path=.env") {
			t.Errorf("output = %q, want debug line with path field", out)
		}
	})

	t.Run("default level hides debug", func(t *testing.T) {
		var buf bytes.Buffer
		t.Setenv(LevelEnv, "")
		InitWriter(&buf, "")

		Debugf("hidden %d", 1)
		Warnf("shown %d", 2)
		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("output = %q, debug should be hidden", out)
		}
		if !strings.Contains(out, " W shown 2") {
			t.Errorf("output = %q, want warn line", out)
		}
	})

	t.Run("env selects level", func(t *testing.T) {
		var buf bytes.Buffer
		t.Setenv(LevelEnv, "trace")
		InitWriter(&buf, "")

		Tracef("deep %s", "detail")
		if !strings.Contains(buf.String(), " T deep detail") {
			t.Errorf("output = %q, want trace line", buf.String())
		}
	})

	t.Run("trace is off at debug", func(t *testing.T) {
		var buf bytes.Buffer
		InitWriter(&buf, "debug")

		Tracef("deep")
		if buf.Len() != 0 {
			t.Errorf("output = %q, want nothing", buf.String())
		}
	})
}
