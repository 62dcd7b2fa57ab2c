package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/infblueocean/ranker/internal/otel"
)

// debugPanelChrome is the number of lines DebugPanel's border and vertical
// padding take. Keep in sync with DebugPanel.
const debugPanelChrome = 4

// debugOverlay renders session stats and recent events. Empty when ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int, now time.Time) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Session Stats"))
	lines = append(lines, fmt.Sprintf("  Sessions:   %d started, %d resumed, %d complete",
		stats[otel.KindSessionStart], stats[otel.KindSessionResume], stats[otel.KindSessionComplete]))
	lines = append(lines, fmt.Sprintf("  Answers:    %d answered, %d undone, %d redone",
		stats[otel.KindSessionAnswer], stats[otel.KindSessionUndo], stats[otel.KindSessionRedo]))
	lines = append(lines, fmt.Sprintf("  Share:      %d encoded, %d decoded, %d rejected",
		stats[otel.KindShareEncode], stats[otel.KindShareDecode], stats[otel.KindShareDecodeError]))
	lines = append(lines, fmt.Sprintf("  Store:      %d saved, %d errors",
		stats[otel.KindStoreSave], stats[otel.KindStoreError]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events, %d errors", ring.Len(), ring.Cap(), ring.Errors()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range ring.Last(20) {
		line := fmt.Sprintf("  %6s  %-20s", formatAge(now.Sub(e.Time)), string(e.Kind))
		if e.Better != "" {
			line += "  " + truncateRunes(e.Better, 16) + " > " + truncateRunes(e.Worse, 16)
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		lines = append(lines, line)
	}

	maxHeight := max(height-debugPanelChrome, 1)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}
	panelWidth := max(min(76, width-4), 20)

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration compactly. Negative durations (clock skew)
// render as "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// truncateRunes shortens s to n runes, ending in "…" when cut.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("ctrl+d") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
