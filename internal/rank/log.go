package rank

// Decision is one answered question.
type Decision struct {
	Better string `json:"better"`
	Worse  string `json:"worse"`
}

// Log is the chronological list of decisions. A cursor outside the Log
// decides how many of them are active; entries past the cursor are kept
// for redo.
type Log []Decision

// Record returns a new log holding l[:cursor] followed by d, and the
// advanced cursor. Anything after cursor is discarded. l is not written.
func (l Log) Record(cursor int, d Decision) (Log, int) {
	cursor = clampCursor(cursor, len(l))
	next := make(Log, cursor, cursor+1)
	copy(next, l[:cursor])
	next = append(next, d)
	return next, cursor + 1
}

// Active returns the decisions in effect at cursor.
func (l Log) Active(cursor int) Log {
	return l[:clampCursor(cursor, len(l))]
}

// Find returns the 1-based position of the decision between a and b in
// either order, or 0 if they were never compared directly.
func (l Log) Find(a, b string) int {
	for i, d := range l {
		if (d.Better == a && d.Worse == b) || (d.Better == b && d.Worse == a) {
			return i + 1
		}
	}
	return 0
}

// Clone returns an independent copy of l.
func (l Log) Clone() Log {
	if l == nil {
		return nil
	}
	return append(Log(nil), l...)
}

// Rebuild replays l[:cursor] on top of a fresh tier-seeded graph. It is the
// only way a session's graph changes on undo and redo, which keeps the
// graph a pure function of the tiers and the active log prefix.
func Rebuild(items []string, tiers Tiers, l Log, cursor int) *Graph {
	g := BuildTierGraph(items, tiers)
	for _, d := range l.Active(cursor) {
		g.set(d.Better, d.Worse)
	}
	return g
}

func clampCursor(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > n {
		return n
	}
	return cursor
}
