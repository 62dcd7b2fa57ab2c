package rank

import (
	"fmt"
	"math/rand"
	"testing"
)

// truthOracle answers questions from a hidden true order.
type truthOracle map[string]int

func newTruthOracle(order []string) truthOracle {
	pos := make(truthOracle, len(order))
	for i, item := range order {
		pos[item] = i
	}
	return pos
}

func (o truthOracle) answer(q Pair) Decision {
	if o[q.A] < o[q.B] {
		return Decision{Better: q.A, Worse: q.B}
	}
	return Decision{Better: q.B, Worse: q.A}
}

// runToCompletion drives a session with the oracle and returns the final
// session, the ranking and every question asked.
func runToCompletion(t *testing.T, s *Session, o truthOracle) (*Session, []string, []Pair) {
	t.Helper()
	var asked []Pair
	limit := worstCaseQuestions(len(s.Items())) + 1
	for {
		res := s.Next()
		if res.Complete() {
			return s, res.Order, asked
		}
		asked = append(asked, *res.Question)
		if len(asked) > limit {
			t.Fatalf("asked %d questions, bound is %d", len(asked), limit-1)
		}
		d := o.answer(*res.Question)
		var err error
		s, err = s.Answer(d.Better, d.Worse)
		if err != nil {
			t.Fatalf("Answer failed: %v", err)
		}
	}
}

func labels(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("item-%02d", i)
	}
	return items
}

func TestEstimateQuestions(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 3},
		{4, 5},
		{5, 8},
		{8, 17},
		{10, 25},
	}
	for _, tt := range tests {
		if got := EstimateQuestions(tt.n); got != tt.want {
			t.Errorf("EstimateQuestions(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

// worstCaseQuestions sums len(left)+len(right)-1 over every merge the
// bottom-up sort performs on n items.
func worstCaseQuestions(n int) int {
	total := 0
	for size := 1; size < n; size *= 2 {
		for lo := 0; lo < n; lo += 2 * size {
			left := min(size, n-lo)
			right := min(size, n-lo-left)
			if right > 0 {
				total += left + right - 1
			}
		}
	}
	return total
}

func TestEstimateMatchesWorstCaseForPowersOfTwo(t *testing.T) {
	tests := []struct {
		n, worst int
	}{
		{2, 1},
		{3, 3},
		{4, 5},
		{5, 9},
		{8, 17},
		{9, 25},
		{16, 49},
	}
	for _, tt := range tests {
		if got := worstCaseQuestions(tt.n); got != tt.worst {
			t.Errorf("worstCaseQuestions(%d) = %d, want %d", tt.n, got, tt.worst)
		}
		if tt.n&(tt.n-1) == 0 && EstimateQuestions(tt.n) != tt.worst {
			t.Errorf("EstimateQuestions(%d) = %d, want the exact bound %d", tt.n, EstimateQuestions(tt.n), tt.worst)
		}
	}
}

func TestUnevenMergeCanExceedEstimate(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	s, err := NewSession(items, nil)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	truth := []string{"a", "c", "b", "d", "e"}
	_, order, asked := runToCompletion(t, s, newTruthOracle(truth))

	for i := range truth {
		if order[i] != truth[i] {
			t.Fatalf("ranking %v, want %v", order, truth)
		}
	}
	if len(asked) != 9 {
		t.Errorf("asked %d questions, want 9", len(asked))
	}
	if len(asked) <= EstimateQuestions(5) {
		t.Errorf("expected this order to exceed the estimate of %d", EstimateQuestions(5))
	}
}

func TestNextScenarioFourItems(t *testing.T) {
	items := []string{"A", "B", "C", "D"}
	s, err := NewSession(items, nil)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	steps := []struct {
		want          Pair
		better, worse string
	}{
		{Pair{"A", "B"}, "A", "B"},
		{Pair{"C", "D"}, "C", "D"},
		{Pair{"A", "C"}, "C", "A"},
	}
	for i, step := range steps {
		res := s.Next()
		if res.Question == nil {
			t.Fatalf("step %d: expected a question, got ranking %v", i, res.Order)
		}
		if *res.Question != step.want {
			t.Fatalf("step %d: question = %v, want %v", i, *res.Question, step.want)
		}
		if s, err = s.Answer(step.better, step.worse); err != nil {
			t.Fatalf("step %d: Answer failed: %v", i, err)
		}
	}

	// Finish with the order C > A > B > D.
	s, order, _ := runToCompletion(t, s, newTruthOracle([]string{"C", "A", "B", "D"}))
	assertConsistent(t, s.Graph(), items, order)
	pos := newTruthOracle(order)
	if !(pos["A"] < pos["B"] && pos["C"] < pos["D"] && pos["C"] < pos["A"]) {
		t.Errorf("ranking %v violates an answered fact", order)
	}
}

func TestNextIsDeterministic(t *testing.T) {
	items := labels(7)
	g := NewGraph(items).Apply(items[0], items[1]).Apply(items[3], items[2])

	first := Next(items, g)
	for i := 0; i < 5; i++ {
		again := Next(items, g)
		if *again.Question != *first.Question {
			t.Fatalf("call %d returned %v, first call returned %v", i, *again.Question, *first.Question)
		}
	}
}

func TestNextDoesNotModifyInput(t *testing.T) {
	items := []string{"B", "A"}
	g := NewGraph(items).Apply("A", "B")

	res := Next(items, g)
	if !res.Complete() {
		t.Fatal("expected complete ranking")
	}
	if res.Order[0] != "A" || items[0] != "B" {
		t.Errorf("order = %v, items = %v", res.Order, items)
	}
}

func TestNextPendingOrderIsPermutation(t *testing.T) {
	items := labels(6)
	g := NewGraph(items).Apply(items[1], items[0])

	res := Next(items, g)
	if res.Complete() {
		t.Fatal("expected a pending question")
	}
	assertPermutation(t, items, res.Order)
}

func TestTierScenarioNeedsNoQuestions(t *testing.T) {
	s, err := NewSession([]string{"X", "Y"}, Tiers{"X": 1, "Y": 2})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	res := s.Next()
	if !res.Complete() {
		t.Fatalf("expected no question, got %v", *res.Question)
	}
	if len(res.Order) != 2 || res.Order[0] != "X" || res.Order[1] != "Y" {
		t.Errorf("ranking = %v, want [X Y]", res.Order)
	}
}

func TestFullRankingProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 2; n <= 12; n++ {
		for trial := 0; trial < 5; trial++ {
			items := labels(n)
			truth := append([]string(nil), items...)
			rng.Shuffle(len(truth), func(i, j int) { truth[i], truth[j] = truth[j], truth[i] })

			s, err := NewSession(items, nil)
			if err != nil {
				t.Fatalf("NewSession failed: %v", err)
			}
			s, order, asked := runToCompletion(t, s, newTruthOracle(truth))

			assertPermutation(t, items, order)
			assertConsistent(t, s.Graph(), items, order)
			for i := range truth {
				if order[i] != truth[i] {
					t.Fatalf("n=%d: ranking %v, want %v", n, order, truth)
				}
			}
			if bound := worstCaseQuestions(n); len(asked) < n-1 || len(asked) > bound {
				t.Errorf("n=%d: asked %d questions, want within [%d, %d]", n, len(asked), n-1, bound)
			}
		}
	}
}

func TestCrossTierPairsAreNeverAsked(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	items := labels(10)
	tiers := Tiers{}
	for i, item := range items {
		if i%4 != 3 { // leave some items untiered
			tiers[item] = i % 3
		}
	}
	truth := append([]string(nil), items...)
	rng.Shuffle(len(truth), func(i, j int) { truth[i], truth[j] = truth[j], truth[i] })
	// Keep the truth consistent with the tiers so the oracle never contradicts them.
	pos := newTruthOracle(truth)
	oracle := truthOracle{}
	for _, item := range items {
		r, ok := tiers[item]
		if !ok {
			r = 1
		}
		oracle[item] = r*100 + pos[item]
	}

	s, err := NewSession(items, tiers)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	s, order, asked := runToCompletion(t, s, oracle)
	for _, q := range asked {
		if tiers.CrossTier(q.A, q.B) {
			t.Errorf("asked cross-tier pair %v", q)
		}
	}
	assertConsistent(t, s.Graph(), items, order)
}

func assertPermutation(t *testing.T, items, order []string) {
	t.Helper()
	if len(order) != len(items) {
		t.Fatalf("order has %d items, want %d", len(order), len(items))
	}
	seen := make(map[string]int)
	for _, item := range order {
		seen[item]++
	}
	for _, item := range items {
		if seen[item] != 1 {
			t.Fatalf("item %q appears %d times in %v", item, seen[item], order)
		}
	}
}

func assertConsistent(t *testing.T, g *Graph, items, order []string) {
	t.Helper()
	pos := newTruthOracle(order)
	for _, a := range items {
		for _, b := range items {
			if a != b && g.Better(a, b) && pos[a] > pos[b] {
				t.Errorf("graph says %s beats %s but ranking is %v", a, b, order)
			}
		}
	}
}
