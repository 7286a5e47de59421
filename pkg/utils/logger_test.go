package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewDefaultLogger(LevelWarn, &buf)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("visible warn")
	l.Error("visible error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level messages leaked: %s", out)
	}
	if !strings.Contains(out, "visible warn") || !strings.Contains(out, "visible error") {
		t.Errorf("expected messages missing: %s", out)
	}
}

func TestLoggerFormatsArgs(t *testing.T) {
	var buf bytes.Buffer
	l := NewDefaultLogger(LevelInfo, &buf)
	l.Info("joined %d pairs at tau=%d", 9, 1)
	if !strings.Contains(buf.String(), "joined 9 pairs at tau=1") {
		t.Errorf("formatting lost: %s", buf.String())
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewDefaultLogger(LevelInfo, &buf)
	scoped := l.WithField("algo", "tjoin").WithFields(map[string]interface{}{"tau": 2})
	scoped.Info("running")

	out := buf.String()
	if !strings.Contains(out, "algo=tjoin") || !strings.Contains(out, "tau=2") {
		t.Errorf("fields missing: %s", out)
	}

	// The parent logger must not inherit the child's fields.
	buf.Reset()
	l.Info("plain")
	if strings.Contains(buf.String(), "algo=") {
		t.Errorf("parent logger polluted: %s", buf.String())
	}
}

func TestNewDefaultLoggerNilWriterDoesNotPanic(t *testing.T) {
	l := NewDefaultLogger(LevelError, nil)
	// Error is at the threshold; with a nil writer this used to be a
	// crash path for callers passing nil.
	l.Error("written to stdout")
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
		"WARNING": LevelWarn,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNullLoggerIsSilentAndChainable(t *testing.T) {
	var l Logger = &NullLogger{}
	l = l.WithField("k", "v")
	l.Info("nothing happens")
}
