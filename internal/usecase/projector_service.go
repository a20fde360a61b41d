package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gvfl/standings-api/internal/domain/score"
	"github.com/gvfl/standings-api/internal/domain/scoring"
	"github.com/gvfl/standings-api/internal/domain/standings"
	"github.com/gvfl/standings-api/internal/platform/logging"
	"github.com/gvfl/standings-api/internal/platform/resilience"
)

const defaultResyncWorkers = 8

// ProjectorService keeps score records consistent with placements. The
// incremental path adjusts a record in place on every mutation; the rebuild
// path recomputes a record from the placements themselves and is the
// correctness fallback whenever the fast path may have drifted.
type ProjectorService struct {
	standingsRepo standings.Repository
	scoreRepo     score.Repository
	table         scoring.Table
	locks         resilience.KeyedMutex
	logger        *logging.Logger
	now           func() time.Time
	resyncWorkers int
}

type ResyncResult struct {
	Scopes          int   `json:"scopes"`
	RecordsWritten  int   `json:"records_written"`
	RecordsDeleted  int   `json:"records_deleted"`
	DriftedRecords  int   `json:"drifted_records"`
	DurationMs      int64 `json:"duration_ms"`
	WorkerCount     int   `json:"worker_count"`
	PlacementsTotal int   `json:"placements_total"`
}

func NewProjectorService(
	standingsRepo standings.Repository,
	scoreRepo score.Repository,
	table scoring.Table,
	logger *logging.Logger,
) *ProjectorService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProjectorService{
		standingsRepo: standingsRepo,
		scoreRepo:     scoreRepo,
		table:         table,
		logger:        logger,
		now:           time.Now,
		resyncWorkers: defaultResyncWorkers,
	}
}

// Table exposes the injected scoring table to sibling services.
func (s *ProjectorService) Table() scoring.Table {
	return s.table
}

// WithResyncWorkers overrides the resync pool size. Values below 1 are
// ignored.
func (s *ProjectorService) WithResyncWorkers(n int) *ProjectorService {
	if n >= 1 {
		s.resyncWorkers = n
	}
	return s
}

// Apply incrementally adjusts the (scope, participant) record for one
// placement mutation. delta is +1 for an add and -1 for a removal. The
// read-modify-write runs under a per-key lock so concurrent mutations for the
// same record cannot lose updates.
func (s *ProjectorService) Apply(ctx context.Context, scope score.Scope, participantKey, displayName string, rank, delta int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectorService.Apply")
	defer span.End()

	lockKey := scope.Key() + "|" + participantKey
	s.locks.Lock(lockKey)
	defer s.locks.Unlock(lockKey)

	record, ok, err := s.scoreRepo.Get(ctx, scope, participantKey)
	if err != nil {
		return fmt.Errorf("get score record: %w", err)
	}
	if !ok {
		record = score.Record{Scope: scope, ParticipantKey: participantKey}
	}
	record.DisplayName = displayName

	record.Points = s.clamp(ctx, scope, participantKey, "points", record.Points+delta*s.table.PointsFor(rank))
	if counter := record.CounterFor(rank); counter != nil {
		*counter = s.clamp(ctx, scope, participantKey, fmt.Sprintf("rank_%d", rank), *counter+delta)
	}
	if scope.IsAllTime() {
		record.Events = s.clamp(ctx, scope, participantKey, "events", record.Events+delta)
	}
	record.UpdatedAt = s.now().UTC()

	if err := s.scoreRepo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upsert score record: %w", err)
	}
	return nil
}

// Rebuild recomputes one (scope, participant) record from placements. A
// record that sums to zero is deleted rather than stored empty. The read and
// write run under the same per-key lock as Apply, so a rebuild cannot
// overwrite an increment that lands mid-flight.
func (s *ProjectorService) Rebuild(ctx context.Context, scope score.Scope, participantKey string) (score.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectorService.Rebuild")
	defer span.End()

	lockKey := scope.Key() + "|" + participantKey
	s.locks.Lock(lockKey)
	defer s.locks.Unlock(lockKey)

	placements, err := s.standingsRepo.ListPlacementsByParticipant(ctx, participantKey, scope.Season)
	if err != nil {
		return score.Record{}, fmt.Errorf("list placements for rebuild: %w", err)
	}

	record := s.fold(scope, participantKey, placements)
	if record.IsZero() {
		if err := s.scoreRepo.Delete(ctx, scope, participantKey); err != nil {
			return score.Record{}, fmt.Errorf("delete empty score record: %w", err)
		}
		return record, nil
	}

	if err := s.scoreRepo.Upsert(ctx, record); err != nil {
		return score.Record{}, fmt.Errorf("upsert rebuilt score record: %w", err)
	}
	return record, nil
}

// Resync rebuilds every score record in every scope from the placements and
// removes records that no longer correspond to any placement. Runs on demand
// and on a schedule as the self-healing pass for incremental drift.
func (s *ProjectorService) Resync(ctx context.Context) (ResyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectorService.Resync")
	defer span.End()

	start := s.now()

	events, err := s.standingsRepo.ListEventsBySeason(ctx, "")
	if err != nil {
		return ResyncResult{}, fmt.Errorf("list events for resync: %w", err)
	}

	type scopedKey struct {
		scope score.Scope
		key   string
	}
	expected := make(map[scopedKey]score.Record)
	scopes := map[score.Scope]struct{}{score.AllTime: {}}
	placementsTotal := 0

	for _, event := range events {
		placements, err := s.standingsRepo.ListPlacements(ctx, event.Name)
		if err != nil {
			return ResyncResult{}, fmt.Errorf("list placements for event %s: %w", event.Name, err)
		}
		placementsTotal += len(placements)

		seasonScope := score.SeasonScope(event.Season)
		scopes[seasonScope] = struct{}{}
		for _, p := range placements {
			for _, scope := range []score.Scope{seasonScope, score.AllTime} {
				k := scopedKey{scope: scope, key: p.ParticipantKey}
				record, ok := expected[k]
				if !ok {
					record = score.Record{Scope: scope, ParticipantKey: p.ParticipantKey}
				}
				s.accumulate(&record, p)
				expected[k] = record
			}
		}
	}

	result := ResyncResult{WorkerCount: s.resyncWorkers, PlacementsTotal: placementsTotal}

	// Stale records first: anything stored that no placement explains.
	for scope := range scopes {
		existing, err := s.scoreRepo.ListByScope(ctx, scope)
		if err != nil {
			return ResyncResult{}, fmt.Errorf("list score records for scope %s: %w", scope.Key(), err)
		}
		result.Scopes++
		for _, record := range existing {
			k := scopedKey{scope: scope, key: record.ParticipantKey}
			want, ok := expected[k]
			if !ok {
				if err := s.scoreRepo.Delete(ctx, scope, record.ParticipantKey); err != nil {
					return ResyncResult{}, fmt.Errorf("delete stale score record: %w", err)
				}
				result.RecordsDeleted++
				continue
			}
			if !record.SameTotals(want) {
				result.DriftedRecords++
				s.logger.WarnContext(ctx, "score record drifted from placements",
					"scope", scope.Key(),
					"participant", record.ParticipantKey,
					"stored_points", record.Points,
					"expected_points", want.Points,
				)
			}
		}
	}

	pool, err := ants.NewPool(s.resyncWorkers)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("create resync worker pool: %w", err)
	}
	defer pool.Release()

	// Writes go through Rebuild so each record is recomputed from a fresh
	// placements read under its per-key lock; the snapshot above is only used
	// for drift reporting and stale detection.
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		written  int
		deleted  int
	)
	for k := range expected {
		k := k
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			record, err := s.Rebuild(ctx, k.scope, k.key)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("rebuild record %s/%s: %w", k.scope.Key(), k.key, err)
				}
				mu.Unlock()
				return
			}
			mu.Lock()
			if record.IsZero() {
				deleted++
			} else {
				written++
			}
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			return ResyncResult{}, fmt.Errorf("submit resync task: %w", submitErr)
		}
	}
	wg.Wait()
	if firstErr != nil {
		return ResyncResult{}, firstErr
	}

	result.RecordsWritten = written
	result.RecordsDeleted += deleted
	result.DurationMs = s.now().Sub(start).Milliseconds()

	s.logger.InfoContext(ctx, "resync completed",
		"scopes", result.Scopes,
		"records_written", result.RecordsWritten,
		"records_deleted", result.RecordsDeleted,
		"drifted", result.DriftedRecords,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

func (s *ProjectorService) fold(scope score.Scope, participantKey string, placements []standings.Placement) score.Record {
	record := score.Record{Scope: scope, ParticipantKey: participantKey, UpdatedAt: s.now().UTC()}
	for _, p := range placements {
		s.accumulate(&record, p)
	}
	return record
}

func (s *ProjectorService) accumulate(record *score.Record, p standings.Placement) {
	record.Points += s.table.PointsFor(p.Rank)
	if counter := record.CounterFor(p.Rank); counter != nil {
		*counter++
	}
	if record.Scope.IsAllTime() {
		record.Events++
	}
	if p.DisplayName != "" {
		record.DisplayName = p.DisplayName
	}
}

// clamp enforces non-negative counters. A negative value means the
// incremental path and the placements disagree; report and floor at zero
// instead of wrapping.
func (s *ProjectorService) clamp(ctx context.Context, scope score.Scope, participantKey, field string, value int) int {
	if value >= 0 {
		return value
	}
	s.logger.WarnContext(ctx, "score counter clamped to zero",
		"scope", scope.Key(),
		"participant", participantKey,
		"field", field,
		"value", value,
	)
	return 0
}
