package rank

import "math/bits"

// Pair is a question for the oracle: which of A and B is better?
type Pair struct {
	A string
	B string
}

// Result is the outcome of one oracle pass. Question is nil once the
// graph orders every item, in which case Order is the final ranking.
// Otherwise Order is the partially merged sequence at the point where the
// merge stopped.
type Result struct {
	Order    []string
	Question *Pair
}

// Complete reports whether no question is pending.
func (r Result) Complete() bool { return r.Question == nil }

// Next runs a bottom-up merge sort over items using g as the comparator.
// It stops at the first pair of run heads whose relation is unknown and
// returns it as the question. Every call starts over from the original item
// order, so equal graphs always yield the same question.
func Next(items []string, g *Graph) Result {
	n := len(items)
	sorted := append([]string(nil), items...)
	buf := make([]string, n)

	for size := 1; size < n; size *= 2 {
		for lo := 0; lo < n; lo += 2 * size {
			left, right := lo, min(lo+size, n)
			leftEnd, rightEnd := right, min(right+size, n)
			out := lo

			for left < leftEnd && right < rightEnd {
				a, b := sorted[left], sorted[right]
				if !g.Known(a, b) {
					return Result{Order: sorted, Question: &Pair{A: a, B: b}}
				}
				if g.Better(a, b) {
					buf[out] = a
					left++
				} else {
					buf[out] = b
					right++
				}
				out++
			}
			out += copy(buf[out:], sorted[left:leftEnd])
			copy(buf[out:], sorted[right:rightEnd])
		}
		sorted, buf = buf, sorted
	}

	return Result{Order: sorted}
}

// EstimateQuestions is a progress estimate of the questions n items need:
// n*ceil(log2 n) - 2^ceil(log2 n) + 1. It bounds Next exactly when n is a
// power of two; otherwise the uneven trailing merges can ask a few more,
// so callers must not treat it as a hard limit.
func EstimateQuestions(n int) int {
	if n <= 1 {
		return 0
	}
	k := bits.Len(uint(n - 1)) // ceil(log2 n)
	return n*k - (1 << k) + 1
}
