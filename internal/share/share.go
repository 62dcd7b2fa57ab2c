// Package share encodes a ranking session into a compact URL-safe token and
// decodes it back by replaying the recorded decisions.
//
// Token layout (before base64url without padding):
//
//	[items, [[betterIdx, worseIdx], ...], {"tier": [itemIdx, ...]} | null]
//
// Compressed tokens carry a leading "~" and zstd-compress the same JSON.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/infblueocean/ranker/internal/rank"
)

// ErrDecode is wrapped by every Decode failure.
var ErrDecode = errors.New("share: invalid token")

// CompressMode selects when Codec compresses tokens.
type CompressMode string

const (
	CompressNever  CompressMode = "never"
	CompressAuto   CompressMode = "auto" // compress only when the token gets shorter
	CompressAlways CompressMode = "always"
)

// Valid reports whether m is a known mode.
func (m CompressMode) Valid() bool {
	switch m {
	case CompressNever, CompressAuto, CompressAlways:
		return true
	}
	return false
}

const compressedPrefix = "~"

// maxDecodedSize bounds zstd output so a hostile token cannot exhaust memory.
const maxDecodedSize = 4 << 20

var (
	encoder, _ = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderConcurrency(1))
	decoder, _ = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxDecodedSize))
)

var b64 = base64.RawURLEncoding

// Codec encodes tokens with a compression policy. The zero value never
// compresses.
type Codec struct {
	Compress CompressMode
}

// Encode returns the share token for items, the decisions in log and the
// optional tier assignment.
func (c Codec) Encode(items []string, log rank.Log, tiers rank.Tiers) string {
	text := marshal(items, log, tiers)
	plain := b64.EncodeToString(text)

	switch c.Compress {
	case CompressAlways:
		return compressedPrefix + b64.EncodeToString(encoder.EncodeAll(text, nil))
	case CompressAuto:
		packed := compressedPrefix + b64.EncodeToString(encoder.EncodeAll(text, nil))
		if len(packed) < len(plain) {
			return packed
		}
	}
	return plain
}

// Encode returns the uncompressed share token.
func Encode(items []string, log rank.Log, tiers rank.Tiers) string {
	return Codec{}.Encode(items, log, tiers)
}

// FromSession encodes the decisions active in s.
func (c Codec) FromSession(s *rank.Session) string {
	return c.Encode(s.Items(), s.ActiveLog(), s.Tiers())
}

// FromSession encodes the decisions active in s without compression.
func FromSession(s *rank.Session) string {
	return Codec{}.FromSession(s)
}

// Link appends token to base as a URL fragment. An empty base yields the
// bare token.
func Link(base, token string) string {
	if base == "" {
		return token
	}
	return strings.TrimRight(base, "#") + "#" + token
}

// ExtractToken accepts a bare token or a link built by Link.
func ExtractToken(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '#'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// marshal builds the compact JSON form with items replaced by indices.
func marshal(items []string, log rank.Log, tiers rank.Tiers) []byte {
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[item] = i
	}

	// Decisions naming labels outside items are dropped.
	decisions := make([][2]int, 0, len(log))
	for _, d := range log {
		b, okB := index[d.Better]
		w, okW := index[d.Worse]
		if !okB || !okW || b == w {
			continue
		}
		decisions = append(decisions, [2]int{b, w})
	}

	var groups map[string][]int
	if len(tiers) > 0 {
		groups = make(map[string][]int)
		for _, item := range items {
			if r, ok := tiers[item]; ok {
				key := strconv.Itoa(r)
				groups[key] = append(groups[key], index[item])
			}
		}
		if len(groups) == 0 {
			groups = nil
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Strings, ints and slices of them always marshal.
	_ = enc.Encode([]any{items, decisions, groups})
	return bytes.TrimRight(buf.Bytes(), "\n")
}
