// Package ui provides the Bubble Tea TUI for ranker.
package ui

// SessionSaved is sent when a session snapshot has been persisted.
type SessionSaved struct {
	ID  string
	Err error
}

// LinkCopied is sent when the share link has been placed on the clipboard.
type LinkCopied struct {
	Err error
}
