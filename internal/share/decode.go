package share

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/infblueocean/ranker/internal/rank"
)

// Decoded is a session reconstructed from a token.
type Decoded struct {
	Items []string
	Log   rank.Log
	Tiers rank.Tiers
	// Ranking is the final order; nil when the decisions in the token do not
	// yet order every item.
	Ranking []string
	// Complete is true when Ranking is set.
	Complete bool

	session *rank.Session
}

// Session returns the restored session with every decoded decision active.
// An incomplete token resumes from its next question.
func (d *Decoded) Session() *rank.Session { return d.session }

// Decode parses a token (or a link carrying one), replays its decisions and
// runs the oracle once. Every failure wraps ErrDecode; Decode never panics.
func Decode(token string) (d *Decoded, err error) {
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("%w: %v", ErrDecode, r)
		}
	}()

	text, err := unwrap(ExtractToken(token))
	if err != nil {
		return nil, err
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(text, &parts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 sections, got %d", ErrDecode, len(parts))
	}

	var items []string
	if err := json.Unmarshal(parts[0], &items); err != nil {
		return nil, fmt.Errorf("%w: items: %v", ErrDecode, err)
	}
	n := len(items)

	var pairs [][]int
	if err := json.Unmarshal(parts[1], &pairs); err != nil {
		return nil, fmt.Errorf("%w: decisions: %v", ErrDecode, err)
	}
	log := make(rank.Log, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 || !inRange(p[0], n) || !inRange(p[1], n) || p[0] == p[1] {
			return nil, fmt.Errorf("%w: decision %d is invalid", ErrDecode, i+1)
		}
		log = append(log, rank.Decision{Better: items[p[0]], Worse: items[p[1]]})
	}

	tiers, err := decodeTiers(parts[2], items)
	if err != nil {
		return nil, err
	}

	s, err := rank.Restore(items, tiers, log, len(log))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	res := s.Next()
	d = &Decoded{
		Items:    s.Items(),
		Log:      s.Log(),
		Tiers:    s.Tiers(),
		Complete: res.Complete(),
		session:  s,
	}
	if res.Complete() {
		d.Ranking = res.Order
	}
	return d, nil
}

// unwrap reverses the printable transform, inflating compressed tokens.
func unwrap(token string) ([]byte, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrDecode)
	}
	compressed := strings.HasPrefix(token, compressedPrefix)
	token = strings.TrimPrefix(token, compressedPrefix)

	raw, err := b64.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !compressed {
		return raw, nil
	}
	text, err := decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return text, nil
}

func decodeTiers(raw json.RawMessage, items []string) (rank.Tiers, error) {
	var groups map[string][]int
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("%w: tiers: %v", ErrDecode, err)
	}
	if len(groups) == 0 {
		return nil, nil
	}
	tiers := make(rank.Tiers)
	for key, members := range groups {
		r, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: tier %q is not a number", ErrDecode, key)
		}
		for _, idx := range members {
			if !inRange(idx, len(items)) {
				return nil, fmt.Errorf("%w: tier %d member %d out of range", ErrDecode, r, idx)
			}
			if _, dup := tiers[items[idx]]; dup {
				return nil, fmt.Errorf("%w: item %d is in more than one tier", ErrDecode, idx)
			}
			tiers[items[idx]] = r
		}
	}
	return tiers, nil
}

func inRange(i, n int) bool { return i >= 0 && i < n }
