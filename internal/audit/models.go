package audit

import "time"

// Entry is an immutable, append-only audit log record.
//
// Invariants:
// - Entries are never updated or deleted.
// - Auditing is best-effort; callers never fail a request on audit errors.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Actor is the subject (or client address for anonymous calls) causing the entry.
	Actor  string `json:"actor"`
	Action Action `json:"action"`
	Target string `json:"target"`

	Notes string `json:"notes,omitempty"`
}

type Action string

const (
	ActionTokenIssued  Action = "token.issued"
	ActionAccessDenied Action = "access.denied"
)
