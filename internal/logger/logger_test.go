package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestDefaultIsNop(t *testing.T) {
	Reset()
	// Must not panic or write anywhere.
	Info("not initialized", zap.String("k", "v"))
	Sugar.Debugf("still %s", "quiet")
	if Log.Core().Enabled(zap.ErrorLevel) {
		t.Error("default logger is enabled, want no-op")
	}
}

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "facestyle.log")

	// 1MB is the smallest size lumberjack rotates at.
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("InitWithFileConfig: %v", err)
	}
	defer Reset()

	payload := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("request %d done: %s", i, payload)
	}
	Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Fatal("active log file does not exist")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	rotated := 0
	for _, e := range entries {
		name := e.Name()
		if name == "facestyle.log" || !strings.HasPrefix(name, "facestyle") {
			continue
		}
		rotated++
		// lumberjack names backups facestyle-YYYY-MM-DDTHH-MM-SS.mmm.log
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s has no timestamp", name)
		}
	}
	if rotated == 0 {
		t.Error("no rotated files found")
	}
}

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
		{"bogus", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}
			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatalf("InitWithFileConfig: %v", err)
			}
			defer Reset()

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			out := string(content)
			for _, want := range tt.expected {
				if !strings.Contains(out, `"level":"`+want+`"`) {
					t.Errorf("missing %s entry", want)
				}
			}
			for _, skip := range tt.excluded {
				if strings.Contains(out, `"level":"`+skip+`"`) {
					t.Errorf("unexpected %s entry at level %s", skip, tt.level)
				}
			}
		})
	}
}

func TestInitWithoutOutputsStaysNop(t *testing.T) {
	if err := InitWithFileConfig("debug", FileConfig{}, false); err != nil {
		t.Fatal(err)
	}
	if Log.Core().Enabled(zap.ErrorLevel) {
		t.Error("logger with no outputs is enabled")
	}
}

func TestNamed(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "named.log")
	if err := InitWithFileConfig("info", FileConfig{Path: logFile, MaxSizeMB: 1}, false); err != nil {
		t.Fatal(err)
	}
	defer Reset()

	Named("pipeline").Info("stage done")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), `"logger":"pipeline"`) {
		t.Errorf("log %q has no logger name", content)
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/var/log/facestyle.log")
	if cfg.Path != "/var/log/facestyle.log" {
		t.Errorf("Path = %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 || cfg.MaxBackups != 5 || cfg.MaxAgeDays != 14 || !cfg.Compress {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
