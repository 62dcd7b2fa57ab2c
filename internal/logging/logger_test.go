package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestCallsBeforeInitAreNoOps(t *testing.T) {
	Close()
	Info("ignored")
	Debug("ignored")
	Warn("ignored")
	Error("ignored")
	WithPrefix("ui").Info("ignored")
}

func TestInitWritesDatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	if err := Init(dir, "info"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Info("session saved", "id", "abc")
	Debug("filtered out")
	WithPrefix("store").Warn("slow write")
	Close()

	name := "ranker-" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "session saved") || !strings.Contains(out, "id=abc") {
		t.Errorf("info line missing: %s", out)
	}
	if strings.Contains(out, "filtered out") {
		t.Errorf("debug line written at info level: %s", out)
	}
	if !strings.Contains(out, "store") || !strings.Contains(out, "slow write") {
		t.Errorf("prefixed line missing: %s", out)
	}
}

func TestInitRejectsBadLevel(t *testing.T) {
	if err := Init(t.TempDir(), "loud"); err == nil {
		Close()
		t.Fatal("expected error for unknown level")
	}
	if Logger != nil {
		t.Error("Logger should stay nil after a failed Init")
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.WarnLevel)
	l.Info("quiet")
	l.Error("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
