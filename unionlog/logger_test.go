package unionlog

import (
	"testing"

	"github.com/doublemo/roaringunion/unionconfig"
)

func TestNewDefaultsToInfoJSON(t *testing.T) {
	logger, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	if logger == nil {
		t.Fatal("New(nil) returned a nil logger")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	cfg := unionconfig.NewLoggerConfig()
	cfg.Level = "not-a-level"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	cfg := unionconfig.NewLoggerConfig()
	cfg.Format = "not-a-format"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewWithRotatingFileSink(t *testing.T) {
	dir := t.TempDir()
	cfg := unionconfig.NewLoggerConfig()
	cfg.File = dir + "/union.log"
	cfg.Rotation = true
	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("test message")
}
