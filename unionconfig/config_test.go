package unionconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doublemo/roaringunion/union"
)

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tunables.yaml")
	yamlBody := "array_threshold: 2048\narray_lazy_lower_bound: 4096\nlogger:\n  level: debug\n  format: stackdriver\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tunables, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tunables.ArrayThreshold != 2048 {
		t.Fatalf("ArrayThreshold = %d, want 2048", tunables.ArrayThreshold)
	}
	if tunables.ArrayLazyLowerBound != 4096 {
		t.Fatalf("ArrayLazyLowerBound = %d, want 4096", tunables.ArrayLazyLowerBound)
	}
	if tunables.Logger.Level != "debug" || tunables.Logger.Format != "stackdriver" {
		t.Fatalf("Logger = %+v", tunables.Logger)
	}
}

func TestLoadRejectsInvertedBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	os.WriteFile(path, []byte("array_threshold: 8192\narray_lazy_lower_bound: 100\n"), 0644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for array_lazy_lower_bound < array_threshold")
	}
}

func TestApplyWritesIntoUnionPackage(t *testing.T) {
	oldT, oldB := union.ArrayThreshold, union.ArrayLazyLowerBound
	defer func() { union.ArrayThreshold, union.ArrayLazyLowerBound = oldT, oldB }()

	tunables := NewTunables()
	tunables.ArrayThreshold = 1234
	tunables.ArrayLazyLowerBound = 5678
	tunables.Apply()

	if union.ArrayThreshold != 1234 {
		t.Fatalf("union.ArrayThreshold = %d, want 1234", union.ArrayThreshold)
	}
	if union.ArrayLazyLowerBound != 5678 {
		t.Fatalf("union.ArrayLazyLowerBound = %d, want 5678", union.ArrayLazyLowerBound)
	}
}
