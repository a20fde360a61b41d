package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gvfl/standings-api/internal/domain/score"
	qb "github.com/gvfl/standings-api/internal/platform/querybuilder"
)

const scoreRecordUpsertSuffix = `ON CONFLICT (scope_key, participant_key)
DO UPDATE SET
    display_name = EXCLUDED.display_name,
    points = EXCLUDED.points,
    first_places = EXCLUDED.first_places,
    second_places = EXCLUDED.second_places,
    third_places = EXCLUDED.third_places,
    fourth_places = EXCLUDED.fourth_places,
    fifth_places = EXCLUDED.fifth_places,
    sixth_places = EXCLUDED.sixth_places,
    events_played = EXCLUDED.events_played,
    updated_at = EXCLUDED.updated_at`

type ScoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) Get(ctx context.Context, scope score.Scope, participantKey string) (score.Record, bool, error) {
	query, args, err := qb.Select("*").From("score_records").
		Where(
			qb.Eq("scope_key", scope.Key()),
			qb.Eq("participant_key", participantKey),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return score.Record{}, false, fmt.Errorf("build get score record query: %w", err)
	}

	var row scoreRecordTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return score.Record{}, false, nil
		}
		return score.Record{}, false, fmt.Errorf("get score record: %w", err)
	}
	return scoreRecordFromRow(row), true, nil
}

func (r *ScoreRepository) Upsert(ctx context.Context, record score.Record) error {
	insertModel := scoreRecordInsertModel{
		ScopeKey:       record.Scope.Key(),
		Season:         record.Scope.Season,
		ParticipantKey: record.ParticipantKey,
		DisplayName:    record.DisplayName,
		Points:         record.Points,
		FirstPlaces:    record.First,
		SecondPlaces:   record.Second,
		ThirdPlaces:    record.Third,
		FourthPlaces:   record.Fourth,
		FifthPlaces:    record.Fifth,
		SixthPlaces:    record.Sixth,
		EventsPlayed:   record.Events,
		UpdatedAt:      record.UpdatedAt,
	}
	query, args, err := qb.InsertModel("score_records", insertModel, scoreRecordUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert score record query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert score record: %w", err)
	}
	return nil
}

func (r *ScoreRepository) ListByScope(ctx context.Context, scope score.Scope) ([]score.Record, error) {
	query, args, err := qb.Select("*").From("score_records").
		Where(qb.Eq("scope_key", scope.Key())).
		OrderBy("points DESC", "participant_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list score records query: %w", err)
	}

	var rows []scoreRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list score records: %w", err)
	}

	out := make([]score.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoreRecordFromRow(row))
	}
	return out, nil
}

func (r *ScoreRepository) Delete(ctx context.Context, scope score.Scope, participantKey string) error {
	query, args, err := qb.DeleteFrom("score_records").
		Where(
			qb.Eq("scope_key", scope.Key()),
			qb.Eq("participant_key", participantKey),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete score record query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete score record: %w", err)
	}
	return nil
}

func (r *ScoreRepository) DeleteScope(ctx context.Context, scope score.Scope) error {
	query, args, err := qb.DeleteFrom("score_records").
		Where(qb.Eq("scope_key", scope.Key())).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete score scope query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete score scope: %w", err)
	}
	return nil
}

func (r *ScoreRepository) DeleteAll(ctx context.Context) error {
	query, args, err := qb.DeleteFrom("score_records").ToSQL()
	if err != nil {
		return fmt.Errorf("build delete score records query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete score records: %w", err)
	}
	return nil
}

func scoreRecordFromRow(row scoreRecordTableModel) score.Record {
	return score.Record{
		Scope:          score.Scope{Season: row.Season},
		ParticipantKey: row.ParticipantKey,
		DisplayName:    row.DisplayName,
		Points:         row.Points,
		First:          row.FirstPlaces,
		Second:         row.SecondPlaces,
		Third:          row.ThirdPlaces,
		Fourth:         row.FourthPlaces,
		Fifth:          row.FifthPlaces,
		Sixth:          row.SixthPlaces,
		Events:         row.EventsPlayed,
		UpdatedAt:      row.UpdatedAt,
	}
}
