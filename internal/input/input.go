// Package input turns the free text a user types into ranking items and,
// in tier mode, their tier assignments.
package input

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/infblueocean/ranker/internal/rank"
)

// tierPatterns are tried in order; the first match wins. "N.)" is tried
// before "N." so that "1.) Foo" does not become the label ") Foo". After
// "N.", "N)" and "N/" the label may not start with a digit, so "1.5 stars"
// and "1/2 cup" stay plain items.
var tierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\((\d+)\)\s*(.+)$`), // (N) label
	regexp.MustCompile(`^(\d+)\.\)\s*(.+)$`), // N.) label
	regexp.MustCompile(`^(\d+)\.\s*(\D.*)$`), // N. label
	regexp.MustCompile(`^(\d+)\)\s*(\D.*)$`), // N) label
	regexp.MustCompile(`^(\d+)/\s*(\D.*)$`),  // N/ label
	regexp.MustCompile(`^(\d+)\s+(.+)$`),     // N label
}

// Parsed is the result of reading an item list.
type Parsed struct {
	Items []string
	// Tiers is nil unless tier mode was requested and at least one line
	// carried a tier prefix.
	Tiers rank.Tiers
	// Duplicates lists labels that appeared more than once. Only the first
	// occurrence is kept.
	Duplicates []string
}

// Parse splits text into one item per non-empty line. With tierMode set,
// lines starting with a tier prefix are assigned that tier. Invalid UTF-8
// is replaced with U+FFFD before duplicates are dropped, so every label
// survives a share token unchanged. Fewer than two items is an error
// wrapping rank.ErrTooFewItems.
func Parse(text string, tierMode bool) (Parsed, error) {
	var p Parsed
	seen := make(map[string]bool)
	tiers := rank.Tiers{}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(strings.ToValidUTF8(line, "\uFFFD"))
		if line == "" {
			continue
		}
		label := line
		tier, hasTier := 0, false
		if tierMode {
			tier, label, hasTier = ParseTierLine(line)
		}
		if seen[label] {
			p.Duplicates = append(p.Duplicates, label)
			continue
		}
		seen[label] = true
		p.Items = append(p.Items, label)
		if hasTier {
			tiers[label] = tier
		}
	}

	if len(tiers) > 0 {
		p.Tiers = tiers
	}
	if len(p.Items) < 2 {
		return p, fmt.Errorf("input: %w (got %d)", rank.ErrTooFewItems, len(p.Items))
	}
	return p, nil
}

// ParseTierLine extracts a tier prefix from a trimmed line. When no
// pattern matches it returns the line unchanged and ok=false.
func ParseTierLine(line string) (tier int, label string, ok bool) {
	for _, re := range tierPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		label = strings.TrimSpace(m[2])
		if label == "" {
			continue
		}
		return n, label, true
	}
	return 0, line, false
}

// Format renders items back into the text form Parse accepts, with tier
// prefixes when tiers are present.
func Format(items []string, tiers rank.Tiers) string {
	var b strings.Builder
	for _, item := range items {
		if r, ok := tiers.Tier(item); ok {
			fmt.Fprintf(&b, "%d. ", r)
		}
		b.WriteString(item)
		b.WriteByte('\n')
	}
	return b.String()
}
