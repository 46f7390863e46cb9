package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

func TestNewLevelAndFormat(t *testing.T) {
	logger := New(Options{Debug: true, Format: "json"})
	if logger.GetLevel() != log.DebugLevel {
		t.Fatalf("level = %v, want debug", logger.GetLevel())
	}
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.WithField("op", "add_task").Info("board.transition.applied")

	var entry map[string]any
	if err := sonic.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if entry["op"] != "add_task" || entry["msg"] != "board.transition.applied" {
		t.Fatalf("unexpected entry %v", entry)
	}

	if New(Options{}).GetLevel() != log.InfoLevel {
		t.Fatalf("default level should be info")
	}
}

func TestOutputWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.log")
	var buf bytes.Buffer
	logger := log.New()
	logger.SetOutput(Output(&buf, path))
	logger.Info("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected message in both outputs")
	}
}
