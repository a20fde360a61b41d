package auditlog

import "context"

// Repository is the append-only reconciliation log. Append assigns the entry
// ID and sequence number and returns the stored entry.
type Repository interface {
	Append(ctx context.Context, entry Entry) (Entry, error)
	// Latest returns the most recently appended entry.
	Latest(ctx context.Context) (Entry, bool, error)
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
