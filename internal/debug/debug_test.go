package debug

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, lvl int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	Init(lvl)
	t.Cleanup(func() { Init(LevelOff) })
	return &buf
}

func TestLevelGating(t *testing.T) {
	buf := captureOutput(t, LevelLive)

	Info("info %d", 1)
	Live("live %d", 2)
	Verbose("verbose %d", 3)
	Trace("trace %d", 4)

	out := buf.String()
	if !strings.Contains(out, "info 1") {
		t.Errorf("expected info message, got %q", out)
	}
	if !strings.Contains(out, "live 2") {
		t.Errorf("expected live message, got %q", out)
	}
	if strings.Contains(out, "verbose 3") {
		t.Errorf("verbose message should be gated at level 2, got %q", out)
	}
	if strings.Contains(out, "trace 4") {
		t.Errorf("trace message should be gated at level 2, got %q", out)
	}
}

func TestOffProducesNothing(t *testing.T) {
	buf := captureOutput(t, LevelOff)
	Info("hidden")
	Error(errors.New("hidden error"))
	if buf.Len() != 0 {
		t.Errorf("expected no output at level 0, got %q", buf.String())
	}
}

func TestTransitionAndError(t *testing.T) {
	buf := captureOutput(t, LevelTrace)
	Transition("Uninitialized", "SurfaceAvailable")
	Error(errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "SurfaceAvailable") {
		t.Errorf("expected transition target in output, got %q", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("expected error text in output, got %q", out)
	}
}

func TestIsEnabled(t *testing.T) {
	captureOutput(t, LevelVerbose)
	if !IsEnabled(LevelInfo) || !IsEnabled(LevelVerbose) {
		t.Error("levels up to verbose should be enabled")
	}
	if IsEnabled(LevelTrace) {
		t.Error("trace should not be enabled at level 3")
	}
}

func TestFmt(t *testing.T) {
	captureOutput(t, LevelOff)
	if got := Fmt("%d", 5); got != "" {
		t.Errorf("Fmt at level 0 = %q, want empty", got)
	}
	Init(LevelInfo)
	if got := Fmt("%d", 5); got != "5" {
		t.Errorf("Fmt at level 1 = %q, want %q", got, "5")
	}
}
