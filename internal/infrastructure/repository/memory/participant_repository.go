package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gvfl/standings-api/internal/domain/participant"
)

// ParticipantRepository is the in-memory participant registry. Lookups are
// keyed by the normalized preferred name; alias lookups scan.
type ParticipantRepository struct {
	mu    sync.RWMutex
	items map[string]participant.Participant
}

func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{
		items: make(map[string]participant.Participant),
	}
}

func (r *ParticipantRepository) List(_ context.Context) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PreferredName < out[j].PreferredName })
	return out, nil
}

func (r *ParticipantRepository) GetByPreferredName(_ context.Context, name string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[participant.NormalizeKey(name)]
	return p, ok, nil
}

func (r *ParticipantRepository) GetByAlias(_ context.Context, alias string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := participant.NormalizeKey(alias)
	if needle == "" {
		return participant.Participant{}, false, nil
	}
	for _, p := range r.items {
		if participant.NormalizeKey(p.FantasyName) == needle ||
			participant.NormalizeKey(p.DiscordName) == needle ||
			strings.TrimSpace(p.DiscordID) == strings.TrimSpace(alias) {
			return p, true, nil
		}
	}
	return participant.Participant{}, false, nil
}

func (r *ParticipantRepository) Upsert(_ context.Context, p participant.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[participant.NormalizeKey(p.PreferredName)] = p
	return nil
}

func (r *ParticipantRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, participant.NormalizeKey(name))
	return nil
}
