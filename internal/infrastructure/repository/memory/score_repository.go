package memory

import (
	"context"
	"sync"

	"github.com/gvfl/standings-api/internal/domain/score"
)

// ScoreRepository stores derived score records keyed by scope then
// participant.
type ScoreRepository struct {
	mu     sync.RWMutex
	scopes map[string]map[string]score.Record
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{
		scopes: make(map[string]map[string]score.Record),
	}
}

func (r *ScoreRepository) Get(_ context.Context, scope score.Scope, participantKey string) (score.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.scopes[scope.Key()][participantKey]
	return record, ok, nil
}

func (r *ScoreRepository) Upsert(_ context.Context, record score.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	scopeKey := record.Scope.Key()
	if r.scopes[scopeKey] == nil {
		r.scopes[scopeKey] = make(map[string]score.Record)
	}
	r.scopes[scopeKey][record.ParticipantKey] = record
	return nil
}

func (r *ScoreRepository) ListByScope(_ context.Context, scope score.Scope) ([]score.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.scopes[scope.Key()]
	out := make([]score.Record, 0, len(records))
	for _, record := range records {
		out = append(out, record)
	}
	return out, nil
}

func (r *ScoreRepository) Delete(_ context.Context, scope score.Scope, participantKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.scopes[scope.Key()], participantKey)
	return nil
}

func (r *ScoreRepository) DeleteScope(_ context.Context, scope score.Scope) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.scopes, scope.Key())
	return nil
}

func (r *ScoreRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scopes = make(map[string]map[string]score.Record)
	return nil
}
