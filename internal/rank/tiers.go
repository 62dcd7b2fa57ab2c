package rank

import "sort"

// Tiers maps an item to its tier rank. Lower ranks are strictly better.
// Items absent from the map have no tier.
type Tiers map[string]int

// Tier returns the rank of item and whether it has one.
func (t Tiers) Tier(item string) (int, bool) {
	if t == nil {
		return 0, false
	}
	r, ok := t[item]
	return r, ok
}

// CrossTier reports whether a and b both have tiers and the tiers differ.
func (t Tiers) CrossTier(a, b string) bool {
	ra, ok := t.Tier(a)
	if !ok {
		return false
	}
	rb, ok := t.Tier(b)
	return ok && ra != rb
}

// Ranks returns the distinct tier ranks in ascending order.
func (t Tiers) Ranks() []int {
	seen := make(map[int]bool)
	var ranks []int
	for _, r := range t {
		if !seen[r] {
			seen[r] = true
			ranks = append(ranks, r)
		}
	}
	sort.Ints(ranks)
	return ranks
}

// Groups returns the members of each tier, ordered as in items.
func (t Tiers) Groups(items []string) map[int][]string {
	if len(t) == 0 {
		return nil
	}
	groups := make(map[int][]string)
	for _, item := range items {
		if r, ok := t[item]; ok {
			groups[r] = append(groups[r], item)
		}
	}
	return groups
}

// Clone returns an independent copy; nil stays nil.
func (t Tiers) Clone() Tiers {
	if t == nil {
		return nil
	}
	out := make(Tiers, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// BuildTierGraph returns a graph where every pair of items in different
// tiers is already decided in favor of the lower rank. Pairs within a tier,
// and pairs involving an untiered item, stay Unknown.
func BuildTierGraph(items []string, tiers Tiers) *Graph {
	g := NewGraph(items)
	if len(tiers) == 0 {
		return g
	}
	for i, a := range items {
		ra, ok := tiers[a]
		if !ok {
			continue
		}
		for _, b := range items[i+1:] {
			rb, ok := tiers[b]
			if !ok || ra == rb {
				continue
			}
			if ra < rb {
				g.set(a, b)
			} else {
				g.set(b, a)
			}
		}
	}
	return g
}
