package memory

import (
	"context"
	"sync"

	"github.com/gvfl/standings-api/internal/domain/season"
)

// SeasonRepository stores seasons, winners, and the current-season pointer.
type SeasonRepository struct {
	mu      sync.RWMutex
	seasons map[string]season.Season
	winners []season.Winner
	current string
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{
		seasons: make(map[string]season.Season),
	}
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.seasons))
	for _, s := range r.seasons {
		out = append(out, s)
	}
	return out, nil
}

func (r *SeasonRepository) Get(_ context.Context, name string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.seasons[name]
	return s, ok, nil
}

func (r *SeasonRepository) Upsert(_ context.Context, s season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seasons[s.Name] = s
	return nil
}

func (r *SeasonRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.seasons, name)
	if r.current == name {
		r.current = ""
	}
	return nil
}

func (r *SeasonRepository) CurrentSeason(_ context.Context) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current, r.current != "", nil
}

func (r *SeasonRepository) SetCurrentSeason(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = name
	return nil
}

func (r *SeasonRepository) ClearCurrentSeason(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = ""
	return nil
}

func (r *SeasonRepository) AddWinner(_ context.Context, w season.Winner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.winners = append(r.winners, w)
	return nil
}

func (r *SeasonRepository) ListWinners(_ context.Context) ([]season.Winner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Winner, len(r.winners))
	copy(out, r.winners)
	return out, nil
}

func (r *SeasonRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seasons = make(map[string]season.Season)
	r.winners = nil
	r.current = ""
	return nil
}
