package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		logger.WithField("screen", "home").Debug("loaded")

		var line map[string]any
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("output is not json: %q", buf.String())
		}
		if line["screen"] != "home" || line["msg"] != "loaded" {
			t.Errorf("line = %v", line)
		}
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Level: "warn", Output: &buf})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		logger.Info("hidden")
		logger.Warn("shown")
		if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("bad level", func(t *testing.T) {
		if _, err := New(Options{Level: "loud"}); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("bad format", func(t *testing.T) {
		if _, err := New(Options{Format: "xml"}); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing to see")
}
