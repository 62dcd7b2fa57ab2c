package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/creack/pty"

	"github.com/infblueocean/ranker/internal/store"
)

// buildRanker builds the ranker binary for testing.
func buildRanker(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("e2e: skipped in -short mode")
	}
	binPath := filepath.Join(t.TempDir(), "ranker")

	rootDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	// Assume we are in test/e2e, go up 2 levels
	rootDir = filepath.Join(rootDir, "..", "..")

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/ranker")
	cmd.Dir = rootDir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	return binPath
}

type session struct {
	t       *testing.T
	dataDir string
	ptmx    *os.File
	console *expect.Console
	output  *bytes.Buffer
}

// start runs the binary under a pty with RANKER_HOME pointing at dataDir.
func start(t *testing.T, binPath, dataDir string, args ...string) *session {
	t.Helper()
	cmd := exec.Command(binPath, args...)
	cmd.Env = append(os.Environ(), "RANKER_HOME="+dataDir, "RANKER_SHARE_BASE_URL=")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		t.Fatalf("failed to start pty: %v", err)
	}
	t.Cleanup(func() {
		_ = ptmx.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	if err := pty.Setsize(ptmx, &pty.Winsize{Cols: 120, Rows: 40}); err != nil {
		t.Fatalf("failed to set pty size: %v", err)
	}

	var output bytes.Buffer
	console, err := expect.NewConsole(
		expect.WithStdin(ptmx),
		expect.WithStdout(&output),
		expect.WithDefaultTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("failed to create console: %v", err)
	}
	t.Cleanup(func() { console.Close() })

	return &session{t: t, dataDir: dataDir, ptmx: ptmx, console: console, output: &output}
}

func (s *session) expect(text string) {
	s.t.Helper()
	if _, err := s.console.ExpectString(text); err != nil {
		if logs, err := os.ReadDir(filepath.Join(s.dataDir, "logs")); err == nil {
			for _, l := range logs {
				data, _ := os.ReadFile(filepath.Join(s.dataDir, "logs", l.Name()))
				s.t.Logf("%s:\n%s", l.Name(), data)
			}
		}
		s.t.Fatalf("%q not found: %v\nScreen:\n%s%s", text, err, s.output.String(), readSnapshot(s.ptmx))
	}
}

func (s *session) send(keys string) {
	s.t.Helper()
	// Let the UI settle between keys
	time.Sleep(200 * time.Millisecond)
	if _, err := s.console.Send(keys); err != nil {
		s.t.Fatalf("failed to send %q: %v", keys, err)
	}
}

func openStore(t *testing.T, dataDir string) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(dataDir, "ranker.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestE2E_RankFile(t *testing.T) {
	binPath := buildRanker(t)
	dataDir := t.TempDir()
	items, err := writeItems(t.TempDir(), "Pizza", "Tacos", "Sushi")
	if err != nil {
		t.Fatal(err)
	}

	s := start(t, binPath, dataDir, "--file", items)

	// Always picking the left item asks (Pizza, Tacos), (Pizza, Sushi)
	// and then (Tacos, Sushi).
	s.expect("Question 1 of up to 3")
	s.send("1")
	s.expect("Question 2 of up to 3")
	s.send("1")
	s.expect("Question 3 of up to 3")
	s.send("1")
	s.expect("Final ranking")
	s.send("q")
	time.Sleep(300 * time.Millisecond)

	sessions, err := openStore(t, dataDir).ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 || !sessions[0].Complete || sessions[0].Cursor != 3 {
		t.Fatalf("expected one complete session after 3 answers, got %+v", sessions)
	}
	if sessions[0].Fingerprint == "" {
		t.Error("complete session should carry a fingerprint")
	}
}

func TestE2E_ResumeAndUndo(t *testing.T) {
	binPath := buildRanker(t)
	dataDir := t.TempDir()
	if err := seedFixtureDB(dataDir); err != nil {
		t.Fatalf("failed to seed fixture db: %v", err)
	}

	s := start(t, binPath, dataDir, "resume", fixtureID)

	s.expect("Question 2 of up to 5")
	s.send("1") // Charlie > Delta
	s.expect("Question 3 of up to 5")
	s.send("u")
	s.expect("Question 2 of up to 5")
	s.send("q")
	time.Sleep(300 * time.Millisecond)

	rec, err := openStore(t, dataDir).GetSession(fixtureID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if rec.Cursor != 1 || rec.Complete {
		t.Errorf("expected cursor 1 after undo, got %+v", rec)
	}
}
