package usecase

import (
	"testing"
	"time"

	"github.com/gvfl/standings-api/internal/domain/score"
	"github.com/gvfl/standings-api/internal/domain/scoring"
	"github.com/gvfl/standings-api/internal/domain/season"
	"github.com/gvfl/standings-api/internal/infrastructure/repository/memory"
	"github.com/gvfl/standings-api/internal/platform/cache"
	"github.com/gvfl/standings-api/internal/platform/logging"
)

// leagueFixture wires the full service graph over in-memory repositories.
type leagueFixture struct {
	participants *memory.ParticipantRepository
	standings    *memory.StandingsRepository
	scores       *memory.ScoreRepository
	auditLog     *memory.AuditLogRepository
	seasons      *memory.SeasonRepository
	links        *memory.FantasyLinkRepository

	identity     *IdentityService
	projector    *ProjectorService
	standingsSvc *StandingsService
	leaderboard  *LeaderboardService
	seasonSvc    *SeasonService
	ingestion    *IngestionService
}

func newLeagueFixture(t *testing.T) *leagueFixture {
	t.Helper()

	f := &leagueFixture{
		participants: memory.NewParticipantRepository(),
		standings:    memory.NewStandingsRepository(),
		scores:       memory.NewScoreRepository(),
		auditLog:     memory.NewAuditLogRepository(nil),
		seasons:      memory.NewSeasonRepository(),
		links:        memory.NewFantasyLinkRepository(),
	}

	logger := logging.NewNop()
	f.identity = NewIdentityService(f.participants)
	f.projector = NewProjectorService(f.standings, f.scores, scoring.CurrentTable(), logger)
	f.standingsSvc = NewStandingsService(f.identity, f.standings, f.auditLog, f.seasons, f.projector, logger)
	f.leaderboard = NewLeaderboardService(f.scores, f.seasons, cache.NewStore(time.Minute))
	f.seasonSvc = NewSeasonService(f.seasons, f.scores, f.standings, f.auditLog, f.links, f.projector, logger)
	f.ingestion = NewIngestionService(f.standingsSvc, logger)
	return f
}

func (f *leagueFixture) withCurrentSeason(t *testing.T, name string) *leagueFixture {
	t.Helper()

	ctx := t.Context()
	if err := f.seasons.Upsert(ctx, season.Season{Name: name, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("seed season %s: %v", name, err)
	}
	if err := f.seasons.SetCurrentSeason(ctx, name); err != nil {
		t.Fatalf("set current season %s: %v", name, err)
	}
	return f
}

func (f *leagueFixture) seasonRecord(t *testing.T, seasonName, participantKey string) (score.Record, bool) {
	t.Helper()

	record, ok, err := f.scores.Get(t.Context(), score.SeasonScope(seasonName), participantKey)
	if err != nil {
		t.Fatalf("get season record: %v", err)
	}
	return record, ok
}

func (f *leagueFixture) allTimeRecord(t *testing.T, participantKey string) (score.Record, bool) {
	t.Helper()

	record, ok, err := f.scores.Get(t.Context(), score.AllTime, participantKey)
	if err != nil {
		t.Fatalf("get all-time record: %v", err)
	}
	return record, ok
}
