package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// eventRecord mirrors otel.Event for JSON decoding, so the viewer keeps
// working on journals written by older builds.
type eventRecord struct {
	Time      time.Time      `json:"t"`
	Level     string         `json:"level"`
	Kind      string         `json:"kind"`
	Comp      string         `json:"comp"`
	RunID     string         `json:"run"`
	SessionID string         `json:"sid"`
	Items     int            `json:"items"`
	Cursor    int            `json:"cursor"`
	Better    string         `json:"better"`
	Worse     string         `json:"worse"`
	DurMs     float64        `json:"dur_ms"`
	Err       string         `json:"err"`
	Msg       string         `json:"msg"`
	Extra     map[string]any `json:"extra"`
}

// eventFilter selects journal lines. Zero values match everything.
type eventFilter struct {
	kind     string // prefix
	level    string // minimum
	comp     string
	session  string
	rawJSON  bool
	minLevel int
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "JSONL event log viewer",
	Long: `Show the latest entries of the event journal (<data-dir>/events.jsonl).

Filters combine: --kind matches a prefix such as "session" or "share.decode",
--level sets the minimum severity.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	f := eventsCmd.Flags()
	f.IntP("tail", "n", 50, "Number of recent lines to show")
	f.BoolP("follow", "f", false, "Follow mode (like tail -f)")
	f.String("kind", "", "Filter by event kind prefix (e.g. 'session')")
	f.String("level", "", "Minimum level: debug, info, warn, error")
	f.String("comp", "", "Filter by component name")
	f.String("sid", "", "Filter by session ID")
	f.Bool("json", false, "Output raw JSON lines")
}

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level string) int {
	switch level {
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

func runEvents(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	tail, _ := flags.GetInt("tail")
	follow, _ := flags.GetBool("follow")
	var filter eventFilter
	filter.kind, _ = flags.GetString("kind")
	filter.level, _ = flags.GetString("level")
	filter.comp, _ = flags.GetString("comp")
	filter.session, _ = flags.GetString("sid")
	filter.rawJSON, _ = flags.GetBool("json")
	filter.minLevel = levelRank(filter.level)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.EventsPath()
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no event log at %s; run the ranker TUI first to generate events", path)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	for _, l := range readTailLines(f, tail, filter.match) {
		fmt.Fprintln(out, filter.format(l.ev, l.raw))
	}
	if !follow {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return followLines(ctx, f, out, filter)
}

func (f eventFilter) match(ev eventRecord) bool {
	if f.kind != "" && !strings.HasPrefix(ev.Kind, f.kind) {
		return false
	}
	if f.level != "" && levelRank(ev.Level) < f.minLevel {
		return false
	}
	if f.comp != "" && ev.Comp != f.comp {
		return false
	}
	if f.session != "" && ev.SessionID != f.session {
		return false
	}
	return true
}

func (f eventFilter) format(ev eventRecord, raw []byte) string {
	if f.rawJSON {
		return string(raw)
	}
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "?"
	}

	parts := []string{fmt.Sprintf("%s %-5s [%-5s] %-20s", ev.Time.Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)}
	if ev.SessionID != "" {
		parts = append(parts, "sid="+shortID(ev.SessionID))
	}
	if ev.Better != "" {
		parts = append(parts, fmt.Sprintf("%q > %q", ev.Better, ev.Worse))
	}
	if ev.Items > 0 {
		parts = append(parts, fmt.Sprintf("items=%d", ev.Items))
	}
	if ev.Cursor > 0 {
		parts = append(parts, fmt.Sprintf("cursor=%d", ev.Cursor))
	}
	if ev.Msg != "" {
		parts = append(parts, "- "+ev.Msg)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	return strings.Join(parts, " ")
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

// readTailLines reads r and returns the last n lines matching the filter.
func readTailLines(r io.Reader, n int, match func(eventRecord) bool) []parsedLine {
	if n <= 0 {
		return nil
	}
	scanner := bufio.NewScanner(r)
	// Allow large lines (Extra maps can be big)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	ring := make([]parsedLine, 0, n)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(raw, &ev) != nil || !match(ev) {
			continue
		}
		// Copy since the scanner reuses its buffer
		line := parsedLine{ev: ev, raw: append([]byte(nil), raw...)}
		if len(ring) < n {
			ring = append(ring, line)
		} else {
			copy(ring, ring[1:])
			ring[n-1] = line
		}
	}
	return ring
}

// followLines polls r for appended lines until ctx is done.
func followLines(ctx context.Context, r io.Reader, w io.Writer, filter eventFilter) error {
	reader := bufio.NewReader(r)
	var pending []byte
	for {
		chunk, err := reader.ReadBytes('\n')
		pending = append(pending, chunk...)
		if errors.Is(err, io.EOF) {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if err != nil {
			return err
		}

		line := trimLine(pending)
		pending = nil
		if len(line) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(line, &ev) != nil {
			continue
		}
		if filter.match(ev) {
			fmt.Fprintln(w, filter.format(ev, line))
		}
	}
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func durPrecision(ms float64) int {
	if ms >= 100 {
		return 0
	}
	if ms >= 1 {
		return 1
	}
	return 2
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
