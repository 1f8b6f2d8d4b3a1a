package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "crystal-mem.log")

	cleanup, err := Setup(Config{Path: path, Debug: true})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := IsReady(); err != nil {
		t.Fatalf("Logger should be ready: %v", err)
	}
	if Path() != path {
		t.Errorf("Expected path %q, got %q", path, Path())
	}

	L().Debug().Int("tile", 3).Msg("reveal.applied")

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if IsReady() == nil {
		t.Error("Logger should not be ready after cleanup")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d:\n%s", len(lines), b)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("Log line is not JSON: %v", err)
	}
	if entry["message"] != "reveal.applied" || entry["level"] != "debug" || entry["tile"] != float64(3) {
		t.Errorf("Unexpected entry: %v", entry)
	}
	if _, ok := entry["caller"]; !ok {
		t.Error("Debug logging should include the caller")
	}
}

func TestSetupInfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.log")
	cleanup, err := Setup(Config{Path: path})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	L().Debug().Msg("hidden")
	L().Info().Msg("shown")
	_ = cleanup()

	b, _ := os.ReadFile(path)
	if strings.Contains(string(b), "hidden") || !strings.Contains(string(b), "shown") {
		t.Errorf("Unexpected log content:\n%s", b)
	}
}

func TestSetupFailureDiscards(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Setup(Config{Path: filepath.Join(blocker, "sub", "x.log")}); err == nil {
		t.Fatal("Expected Setup to fail when the directory cannot be created")
	}
	if IsReady() == nil {
		t.Error("Logger should not be ready after a failed setup")
	}
	L().Info().Msg("must not panic")

	if _, err := Setup(Config{}); err == nil {
		t.Error("Expected an error for an empty path")
	}
}
