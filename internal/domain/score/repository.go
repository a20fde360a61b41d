package score

import "context"

// Repository stores derived score records keyed by (scope, participant).
type Repository interface {
	Get(ctx context.Context, scope Scope, participantKey string) (Record, bool, error)
	Upsert(ctx context.Context, record Record) error
	ListByScope(ctx context.Context, scope Scope) ([]Record, error)
	Delete(ctx context.Context, scope Scope, participantKey string) error
	DeleteScope(ctx context.Context, scope Scope) error
	DeleteAll(ctx context.Context) error
}
