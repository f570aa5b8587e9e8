package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{Level: "verbose"}, &bytes.Buffer{}); err == nil {
		t.Error("New() with unknown level should fail")
	}
	if _, err := New(Config{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Error("New() with unknown format should fail")
	}
}

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("race completed", "winner", "openai")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "race completed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["winner"] != "openai" {
		t.Errorf("winner = %v", entry["winner"])
	}
}

func TestNewLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info record emitted despite warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn record missing")
	}
}

func TestRedactingHandlerScrubsMessageAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", RedactEnabled: true}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("auth failed for api_key=topsecret",
		"header", "Bearer abc.def.ghi",
		"provider", "openai",
	)

	out := buf.String()
	if strings.Contains(out, "topsecret") {
		t.Errorf("message leaked secret: %q", out)
	}
	if strings.Contains(out, "abc.def.ghi") {
		t.Errorf("attribute leaked token: %q", out)
	}
	if !strings.Contains(out, "Bearer ***") {
		t.Errorf("token not redacted in place: %q", out)
	}
	if !strings.Contains(out, "openai") {
		t.Errorf("harmless attribute mangled: %q", out)
	}
}

func TestRedactingHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", RedactEnabled: true}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.With("key", "sk-persistent-secret").Info("request sent")

	out := buf.String()
	if strings.Contains(out, "persistent-secret") {
		t.Errorf("With() attribute leaked secret: %q", out)
	}
}

func TestRedactionDisabledPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", RedactEnabled: false}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("key is sk-visible")
	if !strings.Contains(buf.String(), "sk-visible") {
		t.Errorf("value redacted despite redaction disabled: %q", buf.String())
	}
}
