package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gvfl/standings-api/internal/domain/auditlog"
	"github.com/gvfl/standings-api/internal/domain/score"
	"github.com/gvfl/standings-api/internal/domain/season"
	"github.com/gvfl/standings-api/internal/domain/standings"
	"github.com/gvfl/standings-api/internal/platform/logging"
)

// StandingsService is the write path for event results. Every mutation runs
// the same pipeline: resolve the identity, mutate the placements, project the
// change into the season and all-time score records, then append an audit
// entry describing what happened.
type StandingsService struct {
	identity      *IdentityService
	standingsRepo standings.Repository
	logRepo       auditlog.Repository
	seasonRepo    season.Repository
	projector     *ProjectorService
	logger        *logging.Logger
	now           func() time.Time
}

type PlacementInput struct {
	EventName string `json:"event_name" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Rank      int    `json:"rank" validate:"required"`
	Season    string `json:"season"`
	TeamName  string `json:"team_name"`
	RawScore  int    `json:"raw_score"`
	Actor     string `json:"actor"`
}

type PlacementResult struct {
	EventName      string `json:"event_name"`
	Season         string `json:"season"`
	ParticipantKey string `json:"participant_key"`
	DisplayName    string `json:"display_name"`
	Rank           int    `json:"rank"`
	Points         int    `json:"points"`
}

type UndoResult struct {
	Undone PlacementResult `json:"undone"`
	Action auditlog.Action `json:"action"`
}

func NewStandingsService(
	identity *IdentityService,
	standingsRepo standings.Repository,
	logRepo auditlog.Repository,
	seasonRepo season.Repository,
	projector *ProjectorService,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		identity:      identity,
		standingsRepo: standingsRepo,
		logRepo:       logRepo,
		seasonRepo:    seasonRepo,
		projector:     projector,
		logger:        logger,
		now:           time.Now,
	}
}

// RecordPlacement records that a participant finished an event at a rank and
// projects the points into the season and all-time aggregates. A second
// placement for the same (event, participant) is rejected whatever its rank.
func (s *StandingsService) RecordPlacement(ctx context.Context, input PlacementInput) (PlacementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.RecordPlacement")
	defer span.End()

	input.EventName = strings.TrimSpace(input.EventName)
	if input.EventName == "" {
		return PlacementResult{}, fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if input.Rank < 1 {
		return PlacementResult{}, fmt.Errorf("%w: rank=%d", ErrInvalidRank, input.Rank)
	}

	identity, err := s.identity.Resolve(ctx, input.Name)
	if err != nil {
		return PlacementResult{}, err
	}

	seasonName, event, err := s.resolveEvent(ctx, input.EventName, input.Season)
	if err != nil {
		return PlacementResult{}, err
	}

	placement := standings.Placement{
		EventName:      event.Name,
		ParticipantKey: identity.Key,
		DisplayName:    identity.DisplayName,
		Rank:           input.Rank,
		TeamName:       strings.TrimSpace(input.TeamName),
		RawScore:       input.RawScore,
		AddedBy:        input.Actor,
		AddedAt:        s.now().UTC(),
	}
	if err := s.addAndProject(ctx, seasonName, placement); err != nil {
		return PlacementResult{}, err
	}

	points := s.projector.Table().PointsFor(input.Rank)
	if _, err := s.logRepo.Append(ctx, auditlog.Entry{
		Action:         auditlog.ActionAdd,
		EventName:      event.Name,
		ParticipantKey: identity.Key,
		DisplayName:    identity.DisplayName,
		Rank:           input.Rank,
		Points:         points,
		Season:         seasonName,
		Actor:          input.Actor,
		CreatedAt:      s.now().UTC(),
	}); err != nil {
		return PlacementResult{}, fmt.Errorf("append audit entry: %w", err)
	}

	s.logger.InfoContext(ctx, "placement recorded",
		"event", event.Name,
		"participant", identity.Key,
		"rank", input.Rank,
		"points", points,
		"season", seasonName,
	)
	return PlacementResult{
		EventName:      event.Name,
		Season:         seasonName,
		ParticipantKey: identity.Key,
		DisplayName:    identity.DisplayName,
		Rank:           input.Rank,
		Points:         points,
	}, nil
}

// RemovePlacement deletes the placement matching the participant and exact
// rank and reverses its contribution to both aggregates. Name matching is
// case-insensitive through identity resolution.
func (s *StandingsService) RemovePlacement(ctx context.Context, input PlacementInput) (PlacementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.RemovePlacement")
	defer span.End()

	input.EventName = strings.TrimSpace(input.EventName)
	if input.EventName == "" {
		return PlacementResult{}, fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if input.Rank < 1 {
		return PlacementResult{}, fmt.Errorf("%w: rank=%d", ErrInvalidRank, input.Rank)
	}

	event, ok, err := s.standingsRepo.GetEvent(ctx, input.EventName)
	if err != nil {
		return PlacementResult{}, fmt.Errorf("get event: %w", err)
	}
	if !ok {
		return PlacementResult{}, fmt.Errorf("%w: event=%s", ErrUnknownEvent, input.EventName)
	}

	identity, err := s.identity.Resolve(ctx, input.Name)
	if err != nil {
		return PlacementResult{}, err
	}

	placement, err := s.removeAndProject(ctx, event, identity.Key, input.Rank)
	if err != nil {
		return PlacementResult{}, err
	}

	points := s.projector.Table().PointsFor(placement.Rank)
	if _, err := s.logRepo.Append(ctx, auditlog.Entry{
		Action:         auditlog.ActionRemove,
		EventName:      event.Name,
		ParticipantKey: placement.ParticipantKey,
		DisplayName:    placement.DisplayName,
		Rank:           placement.Rank,
		Points:         points,
		Season:         event.Season,
		Actor:          input.Actor,
		CreatedAt:      s.now().UTC(),
	}); err != nil {
		return PlacementResult{}, fmt.Errorf("append audit entry: %w", err)
	}

	s.logger.InfoContext(ctx, "placement removed",
		"event", event.Name,
		"participant", placement.ParticipantKey,
		"rank", placement.Rank,
		"season", event.Season,
	)
	return PlacementResult{
		EventName:      event.Name,
		Season:         event.Season,
		ParticipantKey: placement.ParticipantKey,
		DisplayName:    placement.DisplayName,
		Rank:           placement.Rank,
		Points:         points,
	}, nil
}

// UndoLast reverses the single most recent add or remove. The reversed entry
// is deleted from the log and replaced by an undo entry carrying a snapshot of
// it, so a second undo finds nothing to target.
func (s *StandingsService) UndoLast(ctx context.Context, actor string) (UndoResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.UndoLast")
	defer span.End()

	latest, ok, err := s.logRepo.Latest(ctx)
	if err != nil {
		return UndoResult{}, fmt.Errorf("read latest audit entry: %w", err)
	}
	if !ok || !latest.Undoable() {
		return UndoResult{}, ErrNoActionToUndo
	}
	if !latest.Complete() {
		return UndoResult{}, fmt.Errorf("%w: entry=%s", ErrMalformedLogEntry, latest.ID)
	}

	// Apply the inverse before touching the log, so a failed reversal leaves
	// the entry in place for a retry.
	switch latest.Action {
	case auditlog.ActionAdd:
		event, ok, err := s.standingsRepo.GetEvent(ctx, latest.EventName)
		if err != nil {
			return UndoResult{}, fmt.Errorf("get event: %w", err)
		}
		if !ok {
			return UndoResult{}, fmt.Errorf("%w: event=%s", ErrUnknownEvent, latest.EventName)
		}
		if _, err := s.removeAndProject(ctx, event, latest.ParticipantKey, latest.Rank); err != nil {
			return UndoResult{}, err
		}
	case auditlog.ActionRemove:
		seasonName, event, err := s.resolveEvent(ctx, latest.EventName, latest.Season)
		if err != nil {
			return UndoResult{}, err
		}
		placement := standings.Placement{
			EventName:      event.Name,
			ParticipantKey: latest.ParticipantKey,
			DisplayName:    latest.DisplayName,
			Rank:           latest.Rank,
			AddedBy:        actor,
			AddedAt:        s.now().UTC(),
		}
		if err := s.addAndProject(ctx, seasonName, placement); err != nil {
			return UndoResult{}, err
		}
	}

	if err := s.logRepo.Delete(ctx, latest.ID); err != nil {
		return UndoResult{}, fmt.Errorf("delete undone audit entry: %w", err)
	}
	snapshot := latest
	if _, err := s.logRepo.Append(ctx, auditlog.Entry{
		Action:         auditlog.ActionUndo,
		EventName:      latest.EventName,
		ParticipantKey: latest.ParticipantKey,
		DisplayName:    latest.DisplayName,
		Rank:           latest.Rank,
		Points:         latest.Points,
		Season:         latest.Season,
		Actor:          actor,
		Original:       &snapshot,
		CreatedAt:      s.now().UTC(),
	}); err != nil {
		return UndoResult{}, fmt.Errorf("append undo audit entry: %w", err)
	}

	s.logger.InfoContext(ctx, "action undone",
		"undone_action", string(latest.Action),
		"event", latest.EventName,
		"participant", latest.ParticipantKey,
		"rank", latest.Rank,
	)
	return UndoResult{
		Action: latest.Action,
		Undone: PlacementResult{
			EventName:      latest.EventName,
			Season:         latest.Season,
			ParticipantKey: latest.ParticipantKey,
			DisplayName:    latest.DisplayName,
			Rank:           latest.Rank,
			Points:         latest.Points,
		},
	}, nil
}

// MarkEventFinished flags an event as finished. Idempotent.
func (s *StandingsService) MarkEventFinished(ctx context.Context, eventName string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.MarkEventFinished")
	defer span.End()

	event, ok, err := s.standingsRepo.GetEvent(ctx, strings.TrimSpace(eventName))
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: event=%s", ErrUnknownEvent, eventName)
	}
	if event.Finished {
		return nil
	}
	event.Finished = true
	event.UpdatedAt = s.now().UTC()
	if err := s.standingsRepo.UpsertEvent(ctx, event); err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

// PurgeEvent drops an event with all its placements and rebuilds the affected
// score records from what remains.
func (s *StandingsService) PurgeEvent(ctx context.Context, eventName, actor string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.PurgeEvent")
	defer span.End()

	eventName = strings.TrimSpace(eventName)
	event, ok, err := s.standingsRepo.GetEvent(ctx, eventName)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: event=%s", ErrUnknownEvent, eventName)
	}

	placements, err := s.standingsRepo.ListPlacements(ctx, event.Name)
	if err != nil {
		return fmt.Errorf("list placements: %w", err)
	}
	if err := s.standingsRepo.DeleteEvent(ctx, event.Name); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	for _, p := range placements {
		if _, err := s.projector.Rebuild(ctx, score.SeasonScope(event.Season), p.ParticipantKey); err != nil {
			return err
		}
		if _, err := s.projector.Rebuild(ctx, score.AllTime, p.ParticipantKey); err != nil {
			return err
		}
	}

	if _, err := s.logRepo.Append(ctx, auditlog.Entry{
		Action:    auditlog.ActionPurgeEvent,
		EventName: event.Name,
		Season:    event.Season,
		Actor:     actor,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	s.logger.InfoContext(ctx, "event purged",
		"event", event.Name,
		"season", event.Season,
		"placements", len(placements),
	)
	return nil
}

// EventStandings returns an event with its placements ordered by rank.
func (s *StandingsService) EventStandings(ctx context.Context, eventName string) (standings.Event, []standings.Placement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.EventStandings")
	defer span.End()

	event, ok, err := s.standingsRepo.GetEvent(ctx, strings.TrimSpace(eventName))
	if err != nil {
		return standings.Event{}, nil, fmt.Errorf("get event: %w", err)
	}
	if !ok {
		return standings.Event{}, nil, fmt.Errorf("%w: event=%s", ErrUnknownEvent, eventName)
	}
	placements, err := s.standingsRepo.ListPlacements(ctx, event.Name)
	if err != nil {
		return standings.Event{}, nil, fmt.Errorf("list placements: %w", err)
	}
	sort.Slice(placements, func(i, j int) bool { return placements[i].Rank < placements[j].Rank })
	return event, placements, nil
}

func (s *StandingsService) ListEvents(ctx context.Context, seasonName string) ([]standings.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListEvents")
	defer span.End()

	events, err := s.standingsRepo.ListEventsBySeason(ctx, strings.TrimSpace(seasonName))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Name < events[j].Name })
	return events, nil
}

func (s *StandingsService) RecentLog(ctx context.Context, limit int) ([]auditlog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.RecentLog")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	entries, err := s.logRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// resolveEvent loads the event, creating it on first use. An existing event
// keeps its season assignment; the input season only matters at creation, and
// when absent the current season is used.
func (s *StandingsService) resolveEvent(ctx context.Context, eventName, seasonName string) (string, standings.Event, error) {
	event, ok, err := s.standingsRepo.GetEvent(ctx, eventName)
	if err != nil {
		return "", standings.Event{}, fmt.Errorf("get event: %w", err)
	}
	if ok {
		return event.Season, event, nil
	}

	seasonName = strings.TrimSpace(seasonName)
	if seasonName == "" {
		current, ok, err := s.seasonRepo.CurrentSeason(ctx)
		if err != nil {
			return "", standings.Event{}, fmt.Errorf("get current season: %w", err)
		}
		if !ok {
			return "", standings.Event{}, fmt.Errorf("%w: no active season and none given", ErrInvalidInput)
		}
		seasonName = current
	}

	event = standings.Event{
		Name:      eventName,
		Season:    seasonName,
		CreatedAt: s.now().UTC(),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.standingsRepo.UpsertEvent(ctx, event); err != nil {
		return "", standings.Event{}, fmt.Errorf("upsert event: %w", err)
	}
	return seasonName, event, nil
}

// addAndProject stores a placement and applies it to both aggregates. No
// audit entry is written here; callers decide whether the mutation is logged.
func (s *StandingsService) addAndProject(ctx context.Context, seasonName string, p standings.Placement) error {
	existing, err := s.standingsRepo.ListPlacements(ctx, p.EventName)
	if err != nil {
		return fmt.Errorf("list placements: %w", err)
	}
	for _, other := range existing {
		if other.ParticipantKey == p.ParticipantKey {
			return fmt.Errorf("%w: event=%s participant=%s", ErrDuplicatePlacement, p.EventName, p.ParticipantKey)
		}
	}

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.standingsRepo.AddPlacement(ctx, p); err != nil {
		return fmt.Errorf("add placement: %w", err)
	}

	if err := s.projector.Apply(ctx, score.SeasonScope(seasonName), p.ParticipantKey, p.DisplayName, p.Rank, +1); err != nil {
		return err
	}
	return s.projector.Apply(ctx, score.AllTime, p.ParticipantKey, p.DisplayName, p.Rank, +1)
}

// removeAndProject deletes the placement matching (participant, rank) and
// reverses it in both aggregates.
func (s *StandingsService) removeAndProject(ctx context.Context, event standings.Event, participantKey string, rank int) (standings.Placement, error) {
	placements, err := s.standingsRepo.ListPlacements(ctx, event.Name)
	if err != nil {
		return standings.Placement{}, fmt.Errorf("list placements: %w", err)
	}
	var found *standings.Placement
	for i, p := range placements {
		if p.ParticipantKey == participantKey && p.Rank == rank {
			found = &placements[i]
			break
		}
	}
	if found == nil {
		return standings.Placement{}, fmt.Errorf("%w: event=%s participant=%s rank=%d",
			ErrPlacementNotFound, event.Name, participantKey, rank)
	}

	if err := s.standingsRepo.RemovePlacement(ctx, event.Name, participantKey, rank); err != nil {
		return standings.Placement{}, fmt.Errorf("remove placement: %w", err)
	}

	if err := s.projector.Apply(ctx, score.SeasonScope(event.Season), found.ParticipantKey, found.DisplayName, found.Rank, -1); err != nil {
		return standings.Placement{}, err
	}
	if err := s.projector.Apply(ctx, score.AllTime, found.ParticipantKey, found.DisplayName, found.Rank, -1); err != nil {
		return standings.Placement{}, err
	}
	return *found, nil
}
