package rank

import "testing"

func TestNewGraphAllUnknown(t *testing.T) {
	g := NewGraph([]string{"A", "B", "C"})

	for _, a := range g.Items() {
		for _, b := range g.Items() {
			if a == b {
				continue
			}
			if g.Known(a, b) {
				t.Errorf("fresh graph should not know %s vs %s", a, b)
			}
		}
	}
	if g.KnownPairs() != 0 {
		t.Errorf("expected 0 known pairs, got %d", g.KnownPairs())
	}
}

func TestApplyIsSymmetricAndPure(t *testing.T) {
	g := NewGraph([]string{"A", "B", "C"})
	next := g.Apply("B", "A")

	if g.Known("A", "B") {
		t.Error("Apply must not modify the receiver")
	}
	if got := next.State("B", "A"); got != Better {
		t.Errorf("state(B,A) = %v, want better", got)
	}
	if got := next.State("A", "B"); got != Worse {
		t.Errorf("state(A,B) = %v, want worse", got)
	}
	if next.Known("A", "C") || next.Known("C", "B") {
		t.Error("unrelated pairs should stay unknown")
	}
	if next.KnownPairs() != 1 {
		t.Errorf("expected 1 known pair, got %d", next.KnownPairs())
	}
}

func TestApplyOverwritesPreviousAnswer(t *testing.T) {
	g := NewGraph([]string{"A", "B"}).Apply("A", "B").Apply("B", "A")

	if !g.Better("B", "A") || g.Better("A", "B") {
		t.Errorf("latest answer should win: state(A,B)=%v state(B,A)=%v", g.State("A", "B"), g.State("B", "A"))
	}
}

func TestApplyUnknownLabelIsNoop(t *testing.T) {
	g := NewGraph([]string{"A", "B"})
	next := g.Apply("A", "Z")

	if !next.Equal(g) {
		t.Error("applying an unknown label should leave the relations unchanged")
	}
	if next.State("A", "Z") != Unknown {
		t.Error("unknown labels should read as unknown")
	}
}

func TestGraphEqual(t *testing.T) {
	a := NewGraph([]string{"A", "B", "C"}).Apply("A", "B")
	b := NewGraph([]string{"A", "B", "C"}).Apply("A", "B")
	c := NewGraph([]string{"A", "B", "C"}).Apply("B", "A")
	d := NewGraph([]string{"A", "C", "B"}).Apply("A", "B")

	if !a.Equal(b) {
		t.Error("graphs with equal content should be equal")
	}
	if a.Equal(c) {
		t.Error("graphs with opposite facts should differ")
	}
	if a.Equal(d) {
		t.Error("graphs with different item order should differ")
	}
	if a.Equal(nil) {
		t.Error("graph should not equal nil")
	}
}

func TestBuildTierGraph(t *testing.T) {
	items := []string{"A", "B", "C", "D", "E"}
	tiers := Tiers{"A": 2, "B": 1, "C": 2, "D": 3}

	g := BuildTierGraph(items, tiers)

	tests := []struct {
		a, b string
		want State
	}{
		{"B", "A", Better},
		{"B", "C", Better},
		{"B", "D", Better},
		{"A", "D", Better},
		{"C", "D", Better},
		{"D", "A", Worse},
		{"A", "C", Unknown}, // same tier
		{"E", "A", Unknown}, // untiered
		{"E", "B", Unknown},
	}
	for _, tt := range tests {
		if got := g.State(tt.a, tt.b); got != tt.want {
			t.Errorf("state(%s,%s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBuildTierGraphWithoutTiers(t *testing.T) {
	g := BuildTierGraph([]string{"A", "B"}, nil)
	if !g.Equal(NewGraph([]string{"A", "B"})) {
		t.Error("nil tiers should produce an empty graph")
	}
}

func TestTiersHelpers(t *testing.T) {
	tiers := Tiers{"A": 3, "B": 1, "C": 3}

	ranks := tiers.Ranks()
	if len(ranks) != 2 || ranks[0] != 1 || ranks[1] != 3 {
		t.Errorf("Ranks() = %v, want [1 3]", ranks)
	}

	groups := tiers.Groups([]string{"C", "B", "A", "D"})
	if got := groups[3]; len(got) != 2 || got[0] != "C" || got[1] != "A" {
		t.Errorf("Groups()[3] = %v, want [C A]", got)
	}
	if !tiers.CrossTier("A", "B") {
		t.Error("A and B are in different tiers")
	}
	if tiers.CrossTier("A", "C") {
		t.Error("A and C share a tier")
	}
	if tiers.CrossTier("A", "D") {
		t.Error("untiered items never cross tiers")
	}

	var none Tiers
	if none.CrossTier("A", "B") || none.Clone() != nil {
		t.Error("nil tiers should behave as empty")
	}
}
