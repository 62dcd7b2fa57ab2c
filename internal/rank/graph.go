// Package rank is the pure ranking engine: a tri-state comparison graph,
// a restartable merge sort that asks for missing comparisons, the decision
// log with undo/redo, and shortest-path justifications.
//
// Nothing in this package does I/O or holds global state. Every operation
// returns new values; callers thread a *Session through their event loop.
package rank

// State is the known relation between an ordered pair of items.
type State int8

const (
	Unknown State = iota
	Better
	Worse
)

func (s State) String() string {
	switch s {
	case Better:
		return "better"
	case Worse:
		return "worse"
	default:
		return "unknown"
	}
}

// mirror returns the state seen from the other side of the pair.
func (s State) mirror() State {
	switch s {
	case Better:
		return Worse
	case Worse:
		return Better
	}
	return Unknown
}

// Graph is a square ledger of pairwise relations indexed by item position.
// A Graph is never modified after construction; Apply returns a copy.
//
// Labels resolve to the first position that carries them, so duplicate
// labels share one row.
type Graph struct {
	items []string
	index map[string]int
	cells []State // n*n, row-major
}

// NewGraph returns an all-Unknown graph over items.
func NewGraph(items []string) *Graph {
	n := len(items)
	g := &Graph{
		items: append([]string(nil), items...),
		index: make(map[string]int, n),
		cells: make([]State, n*n),
	}
	for i, item := range items {
		if _, ok := g.index[item]; !ok {
			g.index[item] = i
		}
	}
	return g
}

// Items returns the items in their original order.
func (g *Graph) Items() []string {
	return append([]string(nil), g.items...)
}

// Len returns the number of items.
func (g *Graph) Len() int { return len(g.items) }

// Has reports whether label is an item of the graph.
func (g *Graph) Has(label string) bool {
	_, ok := g.index[label]
	return ok
}

// State returns the relation of a to b. Unknown labels yield Unknown.
func (g *Graph) State(a, b string) State {
	i, ok := g.index[a]
	if !ok {
		return Unknown
	}
	j, ok := g.index[b]
	if !ok {
		return Unknown
	}
	return g.cells[i*len(g.items)+j]
}

// Known reports whether the relation between a and b has been decided.
func (g *Graph) Known(a, b string) bool {
	return g.State(a, b) != Unknown
}

// Better reports whether a is known to be better than b.
func (g *Graph) Better(a, b string) bool {
	return g.State(a, b) == Better
}

// Apply returns a new graph recording that better beats worse.
// The receiver is left untouched.
func (g *Graph) Apply(better, worse string) *Graph {
	next := g.clone()
	next.set(better, worse)
	return next
}

// Equal reports whether both graphs hold the same items and relations.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	if len(g.items) != len(other.items) {
		return false
	}
	for i := range g.items {
		if g.items[i] != other.items[i] {
			return false
		}
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// KnownPairs counts unordered pairs with a decided relation.
func (g *Graph) KnownPairs() int {
	n := len(g.items)
	count := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if g.cells[i*n+j] != Unknown {
				count++
			}
		}
	}
	return count
}

func (g *Graph) clone() *Graph {
	return &Graph{
		items: g.items,
		index: g.index,
		cells: append([]State(nil), g.cells...),
	}
}

// set writes a relation and its mirror in place. Only used while a graph
// is still private to its constructor.
func (g *Graph) set(better, worse string) {
	i, ok := g.index[better]
	if !ok {
		return
	}
	j, ok := g.index[worse]
	if !ok || i == j {
		return
	}
	n := len(g.items)
	g.cells[i*n+j] = Better
	g.cells[j*n+i] = Better.mirror()
}
