package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gvfl/standings-api/internal/domain/fantasylink"
)

// FantasyLinkRepository stores fantasy links keyed by fantasy game ID.
type FantasyLinkRepository struct {
	mu    sync.RWMutex
	items map[string]fantasylink.Link
}

func NewFantasyLinkRepository() *FantasyLinkRepository {
	return &FantasyLinkRepository{
		items: make(map[string]fantasylink.Link),
	}
}

func (r *FantasyLinkRepository) List(_ context.Context) ([]fantasylink.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasylink.Link, 0, len(r.items))
	for _, link := range r.items {
		out = append(out, link)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FantasyID < out[j].FantasyID })
	return out, nil
}

func (r *FantasyLinkRepository) ListUnprocessed(_ context.Context) ([]fantasylink.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []fantasylink.Link
	for _, link := range r.items {
		if !link.Processed {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FantasyID < out[j].FantasyID })
	return out, nil
}

func (r *FantasyLinkRepository) Upsert(_ context.Context, link fantasylink.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[link.FantasyID] = link
	return nil
}

func (r *FantasyLinkRepository) MarkProcessed(_ context.Context, fantasyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.items[fantasyID]
	if !ok {
		return fmt.Errorf("fantasy link not found: id=%s", fantasyID)
	}
	link.Processed = true
	r.items[fantasyID] = link
	return nil
}

func (r *FantasyLinkRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]fantasylink.Link)
	return nil
}
