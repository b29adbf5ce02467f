package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpersBeforeInit(t *testing.T) {
	L, S = nil, nil
	Debug("ignored", "k", 1)
	Info("ignored")
	Warn("ignored")
	Error("ignored")
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modal.log")
	t.Setenv("MODAL_LOG_FILE", path)

	if err := Init(true); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Debug("key received", "key", "<Esc>")
	Close()
	defer InitNop()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "key received") {
		t.Errorf("log = %q, want it to contain the debug message", data)
	}
}
