package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/gvfl/standings-api/internal/domain/auditlog"
	"github.com/gvfl/standings-api/internal/platform/id"
)

// AuditLogRepository keeps the reconciliation log in memory. Seq is a
// monotonic counter that survives deletions, so ordering never resets.
type AuditLogRepository struct {
	mu      sync.RWMutex
	entries []auditlog.Entry
	nextSeq int64
	idgen   id.Generator
}

func NewAuditLogRepository(idgen id.Generator) *AuditLogRepository {
	if idgen == nil {
		idgen = id.NewRandomGenerator()
	}
	return &AuditLogRepository{
		nextSeq: 1,
		idgen:   idgen,
	}
}

func (r *AuditLogRepository) Append(_ context.Context, entry auditlog.Entry) (auditlog.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entryID, err := r.idgen.NewID()
	if err != nil {
		return auditlog.Entry{}, fmt.Errorf("generate entry id: %w", err)
	}
	entry.ID = entryID
	entry.Seq = r.nextSeq
	r.nextSeq++
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *AuditLogRepository) Latest(_ context.Context) (auditlog.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		return auditlog.Entry{}, false, nil
	}
	return r.entries[len(r.entries)-1], true, nil
}

func (r *AuditLogRepository) ListRecent(_ context.Context, limit int) ([]auditlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]auditlog.Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *AuditLogRepository) Delete(_ context.Context, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, entry := range r.entries {
		if entry.ID == entryID {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("audit entry not found: id=%s", entryID)
}

func (r *AuditLogRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	return nil
}
