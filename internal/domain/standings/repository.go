package standings

import "context"

// Repository owns events and their placements. Placements are the source of
// truth for every derived score.
type Repository interface {
	GetEvent(ctx context.Context, eventName string) (Event, bool, error)
	UpsertEvent(ctx context.Context, event Event) error
	ListEventsBySeason(ctx context.Context, season string) ([]Event, error)
	DeleteEvent(ctx context.Context, eventName string) error

	ListPlacements(ctx context.Context, eventName string) ([]Placement, error)
	// ListPlacementsByParticipant returns every placement for a participant
	// key; season narrows the result when non-empty.
	ListPlacementsByParticipant(ctx context.Context, participantKey, season string) ([]Placement, error)
	AddPlacement(ctx context.Context, p Placement) error
	RemovePlacement(ctx context.Context, eventName, participantKey string, rank int) error

	// DeleteAll removes every event and placement.
	DeleteAll(ctx context.Context) error
}
