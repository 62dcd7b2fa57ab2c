package rank

// StepKind says where a justification step comes from.
type StepKind int

const (
	// StepDecision is a fact the user answered directly.
	StepDecision StepKind = iota
	// StepTier is a fact implied by the two items sitting in different tiers.
	StepTier
)

func (k StepKind) String() string {
	if k == StepTier {
		return "tier"
	}
	return "decision"
}

// Step is one known fact in a justification chain: Better beats Worse.
// Question is the 1-based position of the decision in the log, or 0 for
// tier facts.
type Step struct {
	Better   string
	Worse    string
	Kind     StepKind
	Question int
}

// Explain returns the shortest chain of known facts that places the
// higher-ranked of a and b above the other. It returns nil when the graph
// holds no such chain, i.e. the sort never needed to compare the two items
// directly or transitively.
func Explain(g *Graph, log Log, tiers Tiers, a, b string) []Step {
	if a == b || !g.Has(a) || !g.Has(b) {
		return nil
	}
	src, dst := a, b
	order := Next(g.items, g).Order
	if position(order, b) < position(order, a) {
		src, dst = b, a
	}

	if tiers.CrossTier(src, dst) {
		if tiers[dst] < tiers[src] {
			src, dst = dst, src
		}
		return []Step{{Better: src, Worse: dst, Kind: StepTier}}
	}

	path := shortestPath(g, src, dst)
	if path == nil {
		// Before the ranking is complete the partial order can disagree
		// with facts already known, so look the other way too.
		path = shortestPath(g, dst, src)
	}
	if path == nil {
		return nil
	}
	steps := make([]Step, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		x, y := path[i], path[i+1]
		if tiers.CrossTier(x, y) {
			steps = append(steps, Step{Better: x, Worse: y, Kind: StepTier})
			continue
		}
		steps = append(steps, Step{Better: x, Worse: y, Kind: StepDecision, Question: log.Find(x, y)})
	}
	return steps
}

// shortestPath runs a breadth-first search along "is better than" edges.
// Neighbours are visited in item order so ties resolve deterministically.
func shortestPath(g *Graph, src, dst string) []string {
	items := g.items
	n := len(items)
	start, end := g.index[src], g.index[dst]

	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	parent[start] = start
	queue := []int{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == end {
			break
		}
		row := g.cells[cur*n : (cur+1)*n]
		for next, st := range row {
			if st != Better || parent[next] != -1 {
				continue
			}
			parent[next] = cur
			queue = append(queue, next)
		}
	}
	if parent[end] == -1 {
		return nil
	}

	var path []string
	for at := end; at != start; at = parent[at] {
		path = append(path, items[at])
	}
	path = append(path, items[start])
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func position(order []string, item string) int {
	for i, v := range order {
		if v == item {
			return i
		}
	}
	return len(order)
}
