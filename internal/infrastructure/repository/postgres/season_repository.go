package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gvfl/standings-api/internal/domain/season"
	qb "github.com/gvfl/standings-api/internal/platform/querybuilder"
)

const currentSeasonStateKey = "current_season"

const seasonUpsertSuffix = `ON CONFLICT (name)
DO UPDATE SET
    created_by = EXCLUDED.created_by,
    ended_at = EXCLUDED.ended_at`

const leagueStateUpsertSuffix = `ON CONFLICT (key)
DO UPDATE SET
    value = EXCLUDED.value`

// SeasonRepository persists seasons and winners. The current-season pointer
// lives in the league_state key-value table.
type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}

func (r *SeasonRepository) Get(ctx context.Context, name string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("name", name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get season: %w", err)
	}
	return seasonFromRow(row), true, nil
}

func (r *SeasonRepository) Upsert(ctx context.Context, s season.Season) error {
	insertModel := seasonInsertModel{
		Name:      s.Name,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		EndedAt:   s.EndedAt,
	}
	query, args, err := qb.InsertModel("seasons", insertModel, seasonUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert season: %w", err)
	}
	return nil
}

func (r *SeasonRepository) Delete(ctx context.Context, name string) error {
	query, args, err := qb.DeleteFrom("seasons").
		Where(qb.Eq("name", name)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	return nil
}

func (r *SeasonRepository) CurrentSeason(ctx context.Context) (string, bool, error) {
	query, args, err := qb.Select("value").From("league_state").
		Where(qb.Eq("key", currentSeasonStateKey)).
		Limit(1).
		ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("build get current season query: %w", err)
	}

	var value string
	if err := r.db.GetContext(ctx, &value, query, args...); err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get current season: %w", err)
	}
	return value, value != "", nil
}

func (r *SeasonRepository) SetCurrentSeason(ctx context.Context, name string) error {
	query, args, err := qb.InsertInto("league_state").
		Columns("key", "value").
		Values(currentSeasonStateKey, name).
		Suffix(leagueStateUpsertSuffix).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set current season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set current season: %w", err)
	}
	return nil
}

func (r *SeasonRepository) ClearCurrentSeason(ctx context.Context) error {
	query, args, err := qb.DeleteFrom("league_state").
		Where(qb.Eq("key", currentSeasonStateKey)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear current season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear current season: %w", err)
	}
	return nil
}

func (r *SeasonRepository) AddWinner(ctx context.Context, w season.Winner) error {
	insertModel := seasonWinnerInsertModel{
		Season:         w.Season,
		ParticipantKey: w.ParticipantKey,
		DisplayName:    w.DisplayName,
		Points:         w.Points,
		DecidedAt:      w.DecidedAt,
	}
	query, args, err := qb.InsertModel("season_winners", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert season winner query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert season winner: %w", err)
	}
	return nil
}

func (r *SeasonRepository) ListWinners(ctx context.Context) ([]season.Winner, error) {
	query, args, err := qb.Select("*").From("season_winners").
		OrderBy("decided_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season winners query: %w", err)
	}

	var rows []seasonWinnerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season winners: %w", err)
	}

	out := make([]season.Winner, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.Winner{
			Season:         row.Season,
			ParticipantKey: row.ParticipantKey,
			DisplayName:    row.DisplayName,
			Points:         row.Points,
			DecidedAt:      row.DecidedAt,
		})
	}
	return out, nil
}

func (r *SeasonRepository) DeleteAll(ctx context.Context) error {
	for _, table := range []string{"season_winners", "seasons", "league_state"} {
		query, args, err := qb.DeleteFrom(table).ToSQL()
		if err != nil {
			return fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func seasonFromRow(row seasonTableModel) season.Season {
	out := season.Season{
		Name:      row.Name,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}
	if row.EndedAt.Valid {
		endedAt := row.EndedAt.Time
		out.EndedAt = &endedAt
	}
	return out
}
