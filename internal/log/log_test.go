// ABOUTME: Tests for the leveled logging wrapper
// ABOUTME: Validates debug toggling and level filtering via captured output

package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetDebug(t *testing.T) {
	defer SetDebug(false)

	SetDebug(true)
	if !IsDebug() {
		t.Error("expected IsDebug() = true after SetDebug(true)")
	}

	SetDebug(false)
	if IsDebug() {
		t.Error("expected IsDebug() = false after SetDebug(false)")
	}
}

func TestDebugSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetDebug(false)

	Debug("hidden message", "key", "value")

	if buf.Len() != 0 {
		t.Errorf("debug output emitted at info level: %q", buf.String())
	}
}

func TestDebugEmittedWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer func() {
		SetOutput(os.Stderr)
		SetDebug(false)
	}()
	SetDebug(true)

	Debug("visible message", "attempt", 2)

	out := buf.String()
	if !strings.Contains(out, "visible message") {
		t.Errorf("output %q missing message", out)
	}
	if !strings.Contains(out, "attempt") {
		t.Errorf("output %q missing key", out)
	}
}

func TestInfoWarnErrorAlwaysEmit(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetDebug(false)

	Info("info line")
	Warn("warn line")
	Error("error line")

	out := buf.String()
	for _, want := range []string{"info line", "warn line", "error line"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
