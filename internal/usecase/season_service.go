package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gvfl/standings-api/internal/domain/auditlog"
	"github.com/gvfl/standings-api/internal/domain/fantasylink"
	"github.com/gvfl/standings-api/internal/domain/score"
	"github.com/gvfl/standings-api/internal/domain/season"
	"github.com/gvfl/standings-api/internal/domain/standings"
	"github.com/gvfl/standings-api/internal/platform/logging"
)

// SeasonService manages the season lifecycle: create, select, end with a
// winner, remove, and the full wipe.
type SeasonService struct {
	seasonRepo    season.Repository
	scoreRepo     score.Repository
	standingsRepo standings.Repository
	logRepo       auditlog.Repository
	linkRepo      fantasylink.Repository
	projector     *ProjectorService
	logger        *logging.Logger
	now           func() time.Time
}

type SeasonSummary struct {
	Season  season.Season  `json:"season"`
	Current bool           `json:"current"`
	Winner  *season.Winner `json:"winner,omitempty"`
}

func NewSeasonService(
	seasonRepo season.Repository,
	scoreRepo score.Repository,
	standingsRepo standings.Repository,
	logRepo auditlog.Repository,
	linkRepo fantasylink.Repository,
	projector *ProjectorService,
	logger *logging.Logger,
) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonService{
		seasonRepo:    seasonRepo,
		scoreRepo:     scoreRepo,
		standingsRepo: standingsRepo,
		logRepo:       logRepo,
		linkRepo:      linkRepo,
		projector:     projector,
		logger:        logger,
		now:           time.Now,
	}
}

// Create registers a new season and selects it when no season is active.
func (s *SeasonService) Create(ctx context.Context, name, actor string) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Create")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return season.Season{}, fmt.Errorf("%w: season name is required", ErrInvalidInput)
	}
	if _, ok, err := s.seasonRepo.Get(ctx, name); err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	} else if ok {
		return season.Season{}, fmt.Errorf("%w: season %q already exists", ErrInvalidInput, name)
	}

	created := season.Season{
		Name:      name,
		CreatedBy: actor,
		CreatedAt: s.now().UTC(),
	}
	if err := s.seasonRepo.Upsert(ctx, created); err != nil {
		return season.Season{}, fmt.Errorf("upsert season: %w", err)
	}

	if _, ok, err := s.seasonRepo.CurrentSeason(ctx); err != nil {
		return season.Season{}, fmt.Errorf("get current season: %w", err)
	} else if !ok {
		if err := s.seasonRepo.SetCurrentSeason(ctx, name); err != nil {
			return season.Season{}, fmt.Errorf("set current season: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "season created", "season", name, "actor", actor)
	return created, nil
}

// Select switches the current-season pointer to an existing season.
func (s *SeasonService) Select(ctx context.Context, name string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Select")
	defer span.End()

	name = strings.TrimSpace(name)
	if _, ok, err := s.seasonRepo.Get(ctx, name); err != nil {
		return fmt.Errorf("get season: %w", err)
	} else if !ok {
		return fmt.Errorf("%w: season=%s", ErrNotFound, name)
	}
	if err := s.seasonRepo.SetCurrentSeason(ctx, name); err != nil {
		return fmt.Errorf("set current season: %w", err)
	}
	return nil
}

func (s *SeasonService) Current(ctx context.Context) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Current")
	defer span.End()

	name, ok, err := s.seasonRepo.CurrentSeason(ctx)
	if err != nil {
		return "", fmt.Errorf("get current season: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: no active season", ErrNotFound)
	}
	return name, nil
}

func (s *SeasonService) List(ctx context.Context) ([]SeasonSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.List")
	defer span.End()

	seasons, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	winners, err := s.seasonRepo.ListWinners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list winners: %w", err)
	}
	current, _, err := s.seasonRepo.CurrentSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current season: %w", err)
	}

	winnersBySeason := make(map[string]season.Winner, len(winners))
	for _, w := range winners {
		winnersBySeason[w.Season] = w
	}

	sort.Slice(seasons, func(i, j int) bool { return seasons[i].CreatedAt.Before(seasons[j].CreatedAt) })
	summaries := make([]SeasonSummary, 0, len(seasons))
	for _, item := range seasons {
		summary := SeasonSummary{Season: item, Current: item.Name == current}
		if w, ok := winnersBySeason[item.Name]; ok {
			summary.Winner = &w
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// End closes the current season: the leaderboard leader is recorded as the
// winner, the season gets an end timestamp, and the pointer is cleared. A
// season with no scores ends without a winner.
func (s *SeasonService) End(ctx context.Context, actor string) (*season.Winner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.End")
	defer span.End()

	name, ok, err := s.seasonRepo.CurrentSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current season: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no active season", ErrNotFound)
	}
	current, ok, err := s.seasonRepo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, name)
	}

	records, err := s.scoreRepo.ListByScope(ctx, score.SeasonScope(name))
	if err != nil {
		return nil, fmt.Errorf("list score records: %w", err)
	}

	var winner *season.Winner
	if len(records) > 0 {
		SortRecords(records)
		top := records[0]
		winner = &season.Winner{
			Season:         name,
			ParticipantKey: top.ParticipantKey,
			DisplayName:    top.DisplayName,
			Points:         top.Points,
			DecidedAt:      s.now().UTC(),
		}
		if err := s.seasonRepo.AddWinner(ctx, *winner); err != nil {
			return nil, fmt.Errorf("add winner: %w", err)
		}
	}

	endedAt := s.now().UTC()
	current.EndedAt = &endedAt
	if err := s.seasonRepo.Upsert(ctx, current); err != nil {
		return nil, fmt.Errorf("upsert season: %w", err)
	}
	if err := s.seasonRepo.ClearCurrentSeason(ctx); err != nil {
		return nil, fmt.Errorf("clear current season: %w", err)
	}

	s.logger.InfoContext(ctx, "season ended", "season", name, "actor", actor, "has_winner", winner != nil)
	return winner, nil
}

// Remove deletes a season together with its events, placements, and score
// scope, then rebuilds the all-time records of everyone who played in it.
func (s *SeasonService) Remove(ctx context.Context, name, actor string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Remove")
	defer span.End()

	name = strings.TrimSpace(name)
	if _, ok, err := s.seasonRepo.Get(ctx, name); err != nil {
		return fmt.Errorf("get season: %w", err)
	} else if !ok {
		return fmt.Errorf("%w: season=%s", ErrNotFound, name)
	}

	events, err := s.standingsRepo.ListEventsBySeason(ctx, name)
	if err != nil {
		return fmt.Errorf("list season events: %w", err)
	}
	affected := make(map[string]struct{})
	for _, event := range events {
		placements, err := s.standingsRepo.ListPlacements(ctx, event.Name)
		if err != nil {
			return fmt.Errorf("list placements: %w", err)
		}
		for _, p := range placements {
			affected[p.ParticipantKey] = struct{}{}
		}
		if err := s.standingsRepo.DeleteEvent(ctx, event.Name); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
	}

	if err := s.scoreRepo.DeleteScope(ctx, score.SeasonScope(name)); err != nil {
		return fmt.Errorf("delete season scores: %w", err)
	}
	for key := range affected {
		if _, err := s.projector.Rebuild(ctx, score.AllTime, key); err != nil {
			return err
		}
	}

	if current, ok, err := s.seasonRepo.CurrentSeason(ctx); err != nil {
		return fmt.Errorf("get current season: %w", err)
	} else if ok && current == name {
		if err := s.seasonRepo.ClearCurrentSeason(ctx); err != nil {
			return fmt.Errorf("clear current season: %w", err)
		}
	}
	if err := s.seasonRepo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete season: %w", err)
	}

	if _, err := s.logRepo.Append(ctx, auditlog.Entry{
		Action:    auditlog.ActionRemoveSeason,
		Season:    name,
		Actor:     actor,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	s.logger.InfoContext(ctx, "season removed",
		"season", name,
		"actor", actor,
		"events", len(events),
		"participants", len(affected),
	)
	return nil
}

// Nuke wipes every store. Requires explicit confirmation and leaves a single
// audit entry behind so the wipe itself is on record.
func (s *SeasonService) Nuke(ctx context.Context, actor string, confirmed bool) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Nuke")
	defer span.End()

	if !confirmed {
		return fmt.Errorf("%w: nuke requires confirmation", ErrInvalidInput)
	}

	if err := s.standingsRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	if err := s.scoreRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete scores: %w", err)
	}
	if err := s.seasonRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete seasons: %w", err)
	}
	if err := s.linkRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete fantasy links: %w", err)
	}
	if err := s.logRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete audit entries: %w", err)
	}
	if _, err := s.logRepo.Append(ctx, auditlog.Entry{
		Action:    auditlog.ActionNuke,
		Actor:     actor,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	s.logger.WarnContext(ctx, "all league data wiped", "actor", actor)
	return nil
}
