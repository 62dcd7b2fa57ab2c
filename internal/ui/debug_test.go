package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/infblueocean/ranker/internal/otel"
)

func TestDebugOverlayNilRing(t *testing.T) {
	if result := debugOverlay(nil, 80, 24, time.Now()); result != "" {
		t.Errorf("debugOverlay(nil) should return empty string, got %q", result)
	}
}

func TestDebugOverlayRendersStats(t *testing.T) {
	now := time.Now()
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindSessionStart, Time: now})
	ring.Push(otel.Event{Kind: otel.KindSessionAnswer, Time: now})
	ring.Push(otel.Event{Kind: otel.KindSessionAnswer, Time: now})
	ring.Push(otel.Event{Kind: otel.KindSessionUndo, Time: now})
	ring.Push(otel.Event{Kind: otel.KindStoreError, Level: otel.LevelError, Time: now})

	result := debugOverlay(ring, 80, 40, now)

	for _, want := range []string{
		"Session Stats",
		"1 started, 0 resumed, 0 complete",
		"2 answered, 1 undone, 0 redone",
		"0 saved, 1 errors",
		"5 / 64 events, 1 errors",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("overlay should contain %q, got:\n%s", want, result)
		}
	}
}

func TestDebugOverlayRecentEvents(t *testing.T) {
	now := time.Now()
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindSessionAnswer, Time: now.Add(-1500 * time.Millisecond), Better: "pizza", Worse: "salad"})
	ring.Push(otel.Event{Kind: otel.KindShareDecodeError, Time: now, Err: "share: invalid token"})
	ring.Push(otel.Event{Kind: otel.KindStartup, Time: now, Msg: "hello world"})

	result := debugOverlay(ring, 80, 40, now)

	for _, want := range []string{"Recent Events", "pizza > salad", "1.5s", "ERR:share: invalid token", "hello world"} {
		if !strings.Contains(result, want) {
			t.Errorf("overlay should contain %q, got:\n%s", want, result)
		}
	}
}

func TestDebugOverlayTruncation(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	for i := 0; i < 30; i++ {
		ring.Push(otel.Event{Kind: otel.KindSessionAnswer, Time: time.Now()})
	}

	result := debugOverlay(ring, 80, 10, time.Now())
	if result == "" {
		t.Fatal("overlay should still render with small height")
	}
	// height 10 leaves 6 content lines plus border and padding
	if lines := strings.Count(result, "\n") + 1; lines > 10 {
		t.Errorf("overlay should be truncated, got %d lines", lines)
	}
}

func TestDebugToggle(t *testing.T) {
	ring := otel.NewRingBuffer(16)
	app := NewAppWithConfig(AppConfig{
		Items: []string{"A", "B"},
		Obs:   ObsConfig{Ring: ring},
	})
	app.ready = true
	app.width = 80
	app.height = 24

	if app.debugVisible {
		t.Error("debug should be hidden initially")
	}

	model, _ := app.Update(keyDebug)
	updated := model.(App)
	if !updated.debugVisible {
		t.Error("ctrl+d should show debug overlay")
	}
	if view := updated.View(); !strings.Contains(view, "[DEBUG]") {
		t.Errorf("debug view should contain '[DEBUG]', got:\n%s", view)
	}

	// Answer keys are ignored while the overlay is up.
	model, _ = updated.Update(runes("1"))
	updated = model.(App)
	if updated.Session().Cursor() != 0 {
		t.Error("keys should not reach the session behind the overlay")
	}

	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	updated = model.(App)
	if updated.debugVisible {
		t.Error("second ctrl+d should hide debug overlay")
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		dur  time.Duration
		want string
	}{
		{-5 * time.Second, "0ms"},
		{0, "0ms"},
		{50 * time.Millisecond, "50ms"},
		{1500 * time.Millisecond, "1.5s"},
		{30 * time.Second, "30.0s"},
		{90 * time.Second, "2m"},
		{5 * time.Minute, "5m"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.dur); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.dur, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"longer text", 6, "longe…"},
		{"日本語テキスト", 4, "日本語…"},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
