package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gvfl/standings-api/internal/domain/standings"
)

// StandingsRepository stores events and their placements in memory.
type StandingsRepository struct {
	mu         sync.RWMutex
	events     map[string]standings.Event
	placements map[string][]standings.Placement
}

func NewStandingsRepository() *StandingsRepository {
	return &StandingsRepository{
		events:     make(map[string]standings.Event),
		placements: make(map[string][]standings.Placement),
	}
}

func (r *StandingsRepository) GetEvent(_ context.Context, eventName string) (standings.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[eventName]
	return event, ok, nil
}

func (r *StandingsRepository) UpsertEvent(_ context.Context, event standings.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.Name] = event
	return nil
}

func (r *StandingsRepository) ListEventsBySeason(_ context.Context, season string) ([]standings.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standings.Event, 0, len(r.events))
	for _, event := range r.events {
		if season != "" && event.Season != season {
			continue
		}
		out = append(out, event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *StandingsRepository) DeleteEvent(_ context.Context, eventName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.events, eventName)
	delete(r.placements, eventName)
	return nil
}

func (r *StandingsRepository) ListPlacements(_ context.Context, eventName string) ([]standings.Placement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.placements[eventName]
	out := make([]standings.Placement, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *StandingsRepository) ListPlacementsByParticipant(_ context.Context, participantKey, season string) ([]standings.Placement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []standings.Placement
	for eventName, placements := range r.placements {
		if season != "" {
			event, ok := r.events[eventName]
			if !ok || event.Season != season {
				continue
			}
		}
		for _, p := range placements {
			if p.ParticipantKey == participantKey {
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventName < out[j].EventName })
	return out, nil
}

func (r *StandingsRepository) AddPlacement(_ context.Context, p standings.Placement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.placements[p.EventName] {
		if existing.ParticipantKey == p.ParticipantKey {
			return fmt.Errorf("placement already exists: event=%s participant=%s", p.EventName, p.ParticipantKey)
		}
	}
	r.placements[p.EventName] = append(r.placements[p.EventName], p)
	return nil
}

func (r *StandingsRepository) RemovePlacement(_ context.Context, eventName, participantKey string, rank int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.placements[eventName]
	for i, p := range stored {
		if p.ParticipantKey == participantKey && p.Rank == rank {
			r.placements[eventName] = append(stored[:i:i], stored[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("placement not found: event=%s participant=%s rank=%d", eventName, participantKey, rank)
}

func (r *StandingsRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make(map[string]standings.Event)
	r.placements = make(map[string][]standings.Placement)
	return nil
}
