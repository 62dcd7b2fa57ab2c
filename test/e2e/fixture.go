package e2e

import (
	"os"
	"path/filepath"
	"time"

	"github.com/infblueocean/ranker/internal/model"
	"github.com/infblueocean/ranker/internal/rank"
	"github.com/infblueocean/ranker/internal/share"
	"github.com/infblueocean/ranker/internal/store"
)

// fixtureID names the half-finished session seedFixtureDB saves.
const fixtureID = "fixture-1"

// seedFixtureDB saves a four-item session with one answer given, so the
// next question is (C, D).
func seedFixtureDB(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	st, err := store.Open(filepath.Join(dataDir, "ranker.db"))
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := rank.NewSession([]string{"Alpha", "Bravo", "Charlie", "Delta"}, nil)
	if err != nil {
		return err
	}
	if s, err = s.Answer("Alpha", "Bravo"); err != nil {
		return err
	}
	return st.SaveSession(model.Record(fixtureID, "", s, share.Codec{}))
}

func writeItems(dir string, items ...string) (string, error) {
	path := filepath.Join(dir, "items.txt")
	var text string
	for _, item := range items {
		text += item + "\n"
	}
	return path, os.WriteFile(path, []byte(text), 0644)
}

func readSnapshot(f *os.File) string {
	if err := f.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		return ""
	}
	out := make([]byte, 0, 8192)
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	return string(out)
}
