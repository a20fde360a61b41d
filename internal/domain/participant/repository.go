package participant

import "context"

// Repository describes registry persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Participant, error)
	GetByPreferredName(ctx context.Context, preferredName string) (Participant, bool, error)
	GetByAlias(ctx context.Context, alias string) (Participant, bool, error)
	Upsert(ctx context.Context, p Participant) error
	Delete(ctx context.Context, preferredName string) error
}
