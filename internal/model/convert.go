// Package model converts between live ranking sessions and saved records.
//
// A record keeps the full decision log, including undone decisions past the
// cursor, so redo survives a restart. Share tokens handed to people only
// carry the active decisions.
package model

import (
	"fmt"
	"strings"

	"github.com/infblueocean/ranker/internal/rank"
	"github.com/infblueocean/ranker/internal/share"
	"github.com/infblueocean/ranker/internal/store"
)

// titleItems is how many labels Title shows before summarizing.
const titleItems = 3

// Record converts a session into a store row under id. An empty title is
// derived from the items.
func Record(id, title string, s *rank.Session, codec share.Codec) store.Session {
	items := s.Items()
	if title == "" {
		title = Title(items)
	}
	rec := store.Session{
		ID:        id,
		Title:     title,
		Token:     codec.Encode(items, s.Log(), s.Tiers()),
		Cursor:    s.Cursor(),
		ItemCount: len(items),
		Complete:  s.Next().Complete(),
	}
	if rec.Complete {
		// Uncompressed, so the same ranking matches whatever the codec setting.
		rec.Fingerprint = store.Fingerprint(share.FromSession(s))
	}
	return rec
}

// Restore rebuilds the session a record was saved from, cursor included.
func Restore(rec store.Session) (*rank.Session, error) {
	d, err := share.Decode(rec.Token)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", rec.ID, err)
	}
	s, err := rank.Restore(d.Items, d.Tiers, d.Log, rec.Cursor)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", rec.ID, err)
	}
	return s, nil
}

// Title summarizes items as "A, B, C +2 more".
func Title(items []string) string {
	if len(items) <= titleItems {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(items[:titleItems], ", "), len(items)-titleItems)
}
