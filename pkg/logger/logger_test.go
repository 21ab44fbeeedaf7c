package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "json")
	log.Debug().Str("employee_code", "E1").Msg("card saved")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != ServiceName {
		t.Errorf("Expected service %s, got %v", ServiceName, entry["service"])
	}
	if entry["employee_code"] != "E1" {
		t.Errorf("Expected employee_code field, got %v", entry["employee_code"])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", "json")
	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("Info should be filtered at warn level, got %q", buf.String())
	}

	log = NewWithWriter(&buf, "bogus", "json")
	log.Info().Msg("visible")
	if buf.Len() == 0 {
		t.Error("Unknown level should default to info")
	}
}
