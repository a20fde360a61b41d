package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gvfl/standings-api/internal/domain/score"
	"github.com/gvfl/standings-api/internal/domain/season"
	"github.com/gvfl/standings-api/internal/platform/cache"
)

// LeaderboardService is the read path over score records. Results are cached
// with a short TTL; writes rely on the TTL rather than explicit invalidation.
type LeaderboardService struct {
	scoreRepo  score.Repository
	seasonRepo season.Repository
	cache      *cache.Store
}

type Leaderboard struct {
	Scope   score.Scope    `json:"-"`
	Season  string         `json:"season,omitempty"`
	AllTime bool           `json:"all_time"`
	Records []score.Record `json:"records"`
}

func NewLeaderboardService(scoreRepo score.Repository, seasonRepo season.Repository, cacheStore *cache.Store) *LeaderboardService {
	return &LeaderboardService{
		scoreRepo:  scoreRepo,
		seasonRepo: seasonRepo,
		cache:      cacheStore,
	}
}

// SeasonLeaderboard returns the ranked records for a season. An empty season
// name means the current season.
func (s *LeaderboardService) SeasonLeaderboard(ctx context.Context, seasonName string) (Leaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.SeasonLeaderboard")
	defer span.End()

	seasonName = strings.TrimSpace(seasonName)
	if seasonName == "" {
		current, ok, err := s.seasonRepo.CurrentSeason(ctx)
		if err != nil {
			return Leaderboard{}, fmt.Errorf("get current season: %w", err)
		}
		if !ok {
			return Leaderboard{}, fmt.Errorf("%w: no active season", ErrNotFound)
		}
		seasonName = current
	}
	return s.load(ctx, score.SeasonScope(seasonName))
}

func (s *LeaderboardService) AllTimeLeaderboard(ctx context.Context) (Leaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.AllTimeLeaderboard")
	defer span.End()

	return s.load(ctx, score.AllTime)
}

func (s *LeaderboardService) load(ctx context.Context, scope score.Scope) (Leaderboard, error) {
	key := "leaderboard:" + scope.Key()
	value, err := s.cache.GetOrLoad(ctx, key, func() (any, error) {
		records, err := s.scoreRepo.ListByScope(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("list score records: %w", err)
		}
		SortRecords(records)
		return Leaderboard{
			Scope:   scope,
			Season:  scope.Season,
			AllTime: scope.IsAllTime(),
			Records: records,
		}, nil
	})
	if err != nil {
		return Leaderboard{}, err
	}
	board, ok := value.(Leaderboard)
	if !ok {
		return Leaderboard{}, fmt.Errorf("unexpected cache value for %s", key)
	}
	return board, nil
}

// SortRecords orders records the way leaderboards are displayed: points
// descending, then podium counters from first place down, then name.
func SortRecords(records []score.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		for rank := 1; rank <= 6; rank++ {
			ac, bc := *a.CounterFor(rank), *b.CounterFor(rank)
			if ac != bc {
				return ac > bc
			}
		}
		return a.DisplayName < b.DisplayName
	})
}
