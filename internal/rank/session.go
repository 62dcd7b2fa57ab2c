package rank

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrTooFewItems is returned when a session would rank fewer than two items.
	ErrTooFewItems = errors.New("rank: at least 2 items are required")

	// ErrDuplicateItem is returned when two items share a label. The graph is
	// keyed by label, so duplicates would silently collapse into one entry.
	ErrDuplicateItem = errors.New("rank: duplicate item")

	// ErrInvalidItem is returned for a label that is not valid UTF-8. Such
	// labels do not survive a share token.
	ErrInvalidItem = errors.New("rank: item is not valid UTF-8")

	// ErrUnknownItem is returned when an answer names an item outside the session.
	ErrUnknownItem = errors.New("rank: unknown item")

	// ErrSelfComparison is returned when a decision compares an item with itself.
	ErrSelfComparison = errors.New("rank: item compared with itself")
)

// Session is one ranking in progress. It is immutable: Answer, Undo and
// Redo return new sessions and leave the receiver valid.
type Session struct {
	items  []string
	tiers  Tiers
	log    Log
	cursor int
	graph  *Graph
}

// NewSession seeds a session from items and optional tiers.
func NewSession(items []string, tiers Tiers) (*Session, error) {
	return Restore(items, tiers, nil, 0)
}

// Restore rebuilds a session from a saved log and cursor. Decisions must
// only name session items.
func Restore(items []string, tiers Tiers, log Log, cursor int) (*Session, error) {
	if len(items) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewItems, len(items))
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !utf8.ValidString(item) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidItem, item)
		}
		if seen[item] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItem, item)
		}
		seen[item] = true
	}
	for i, d := range log {
		if !seen[d.Better] || !seen[d.Worse] {
			return nil, fmt.Errorf("decision %d: %w", i+1, ErrUnknownItem)
		}
		if d.Better == d.Worse {
			return nil, fmt.Errorf("decision %d: %w", i+1, ErrSelfComparison)
		}
	}
	items = append([]string(nil), items...)
	tiers = tiers.Clone()
	log = log.Clone()
	cursor = clampCursor(cursor, len(log))
	return &Session{
		items:  items,
		tiers:  tiers,
		log:    log,
		cursor: cursor,
		graph:  Rebuild(items, tiers, log, cursor),
	}, nil
}

// Items returns the items in input order.
func (s *Session) Items() []string { return append([]string(nil), s.items...) }

// Tiers returns a copy of the tier assignment, nil when tier mode is off.
func (s *Session) Tiers() Tiers { return s.tiers.Clone() }

// Log returns every recorded decision, including redo history past the cursor.
func (s *Session) Log() Log { return s.log.Clone() }

// ActiveLog returns the decisions applied to the current graph.
func (s *Session) ActiveLog() Log { return s.log.Active(s.cursor).Clone() }

// Cursor returns the number of active decisions.
func (s *Session) Cursor() int { return s.cursor }

// Graph returns the current comparison graph.
func (s *Session) Graph() *Graph { return s.graph }

// Next asks the oracle for the next question or the final ranking.
func (s *Session) Next() Result { return Next(s.items, s.graph) }

// Estimate returns the upper bound on questions for this session.
func (s *Session) Estimate() int { return EstimateQuestions(len(s.items)) }

// CanUndo reports whether there is an active decision to take back.
func (s *Session) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether undone decisions are available to replay.
func (s *Session) CanRedo() bool { return s.cursor < len(s.log) }

// Answer records that better beats worse. Redo history past the cursor
// is dropped.
func (s *Session) Answer(better, worse string) (*Session, error) {
	if !s.graph.Has(better) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, better)
	}
	if !s.graph.Has(worse) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, worse)
	}
	if better == worse {
		return nil, fmt.Errorf("%w: %q", ErrSelfComparison, better)
	}
	log, cursor := s.log.Record(s.cursor, Decision{Better: better, Worse: worse})
	next := *s
	next.log = log
	next.cursor = cursor
	next.graph = s.graph.Apply(better, worse)
	return &next, nil
}

// Undo steps the cursor back one decision and rebuilds the graph.
// It reports false at the start of the log.
func (s *Session) Undo() (*Session, bool) {
	if !s.CanUndo() {
		return s, false
	}
	return s.moveTo(s.cursor - 1), true
}

// Redo replays the next undone decision. It reports false when there is
// nothing to redo.
func (s *Session) Redo() (*Session, bool) {
	if !s.CanRedo() {
		return s, false
	}
	return s.moveTo(s.cursor + 1), true
}

// Explain justifies the relative rank of a and b from the active decisions.
func (s *Session) Explain(a, b string) ([]Step, error) {
	if !s.graph.Has(a) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, a)
	}
	if !s.graph.Has(b) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, b)
	}
	return Explain(s.graph, s.log.Active(s.cursor), s.tiers, a, b), nil
}

func (s *Session) moveTo(cursor int) *Session {
	next := *s
	next.cursor = cursor
	next.graph = Rebuild(s.items, s.tiers, s.log, cursor)
	return &next
}
