package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, lvl := range append(AllLevels, "WARNING", "Info") {
		if _, err := ParseLevel(lvl); err != nil {
			t.Errorf("ParseLevel(%q) error = %v, want nil", lvl, err)
		}
	}
	if _, err := ParseLevel("trace"); !errors.Is(err, ErrUnknownLogLevel) {
		t.Errorf("ParseLevel(trace) error = %v, want ErrUnknownLogLevel", err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range AllFormats {
		if _, err := ParseFormat(f); err != nil {
			t.Errorf("ParseFormat(%q) error = %v, want nil", f, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownLogFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want ErrUnknownLogFormat", err)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("rule fired", "typeclass", "W600")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug filtered): %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "rule fired" || rec["typeclass"] != "W600" {
		t.Errorf("record = %v, want msg and typeclass", rec)
	}
}

func TestNew_TextAndLogfmt(t *testing.T) {
	for _, format := range []string{"text", "logfmt"} {
		var buf bytes.Buffer
		logger, err := New(&buf, "debug", format)
		if err != nil {
			t.Fatalf("New(%s) error = %v", format, err)
		}
		logger.Debug("applied", "rules", 2)
		if !strings.Contains(buf.String(), "applied") {
			t.Errorf("%s output = %q, want message", format, buf.String())
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud", "json"); err == nil {
		t.Errorf("New() error = nil for bad level")
	}
	if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Errorf("New() error = nil for bad format")
	}
}
