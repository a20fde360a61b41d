package fantasylink

import "context"

type Repository interface {
	List(ctx context.Context) ([]Link, error)
	ListUnprocessed(ctx context.Context) ([]Link, error)
	Upsert(ctx context.Context, link Link) error
	MarkProcessed(ctx context.Context, fantasyID string) error
	DeleteAll(ctx context.Context) error
}
