package season

import "context"

// Repository stores seasons, the current-season pointer, and season winners.
type Repository interface {
	List(ctx context.Context) ([]Season, error)
	Get(ctx context.Context, name string) (Season, bool, error)
	Upsert(ctx context.Context, s Season) error
	Delete(ctx context.Context, name string) error

	CurrentSeason(ctx context.Context) (string, bool, error)
	SetCurrentSeason(ctx context.Context, name string) error
	ClearCurrentSeason(ctx context.Context) error

	AddWinner(ctx context.Context, w Winner) error
	ListWinners(ctx context.Context) ([]Winner, error)

	// DeleteAll removes every season, winner, and the current-season pointer.
	DeleteAll(ctx context.Context) error
}
