package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gvfl/standings-api/internal/domain/standings"
	qb "github.com/gvfl/standings-api/internal/platform/querybuilder"
)

const eventUpsertSuffix = `ON CONFLICT (name)
DO UPDATE SET
    season = EXCLUDED.season,
    finished = EXCLUDED.finished,
    updated_at = EXCLUDED.updated_at`

// StandingsRepository persists events and placements. A placement is unique
// per (event, participant), enforced by the table's primary key.
type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) GetEvent(ctx context.Context, eventName string) (standings.Event, bool, error) {
	query, args, err := qb.Select("*").From("events").
		Where(qb.Eq("name", eventName)).
		Limit(1).
		ToSQL()
	if err != nil {
		return standings.Event{}, false, fmt.Errorf("build get event query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standings.Event{}, false, nil
		}
		return standings.Event{}, false, fmt.Errorf("get event: %w", err)
	}
	return eventFromRow(row), true, nil
}

func (r *StandingsRepository) UpsertEvent(ctx context.Context, event standings.Event) error {
	insertModel := eventInsertModel{
		Name:      event.Name,
		Season:    event.Season,
		Finished:  event.Finished,
		CreatedAt: event.CreatedAt,
		UpdatedAt: event.UpdatedAt,
	}
	query, args, err := qb.InsertModel("events", insertModel, eventUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert event query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

func (r *StandingsRepository) ListEventsBySeason(ctx context.Context, season string) ([]standings.Event, error) {
	builder := qb.Select("*").From("events").OrderBy("name")
	if season != "" {
		builder = builder.Where(qb.Eq("season", season))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]standings.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

func (r *StandingsRepository) DeleteEvent(ctx context.Context, eventName string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx delete event: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	placementsQuery, placementsArgs, err := qb.DeleteFrom("placements").
		Where(qb.Eq("event_name", eventName)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete placements query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, placementsQuery, placementsArgs...); err != nil {
		return fmt.Errorf("delete placements: %w", err)
	}

	eventQuery, eventArgs, err := qb.DeleteFrom("events").
		Where(qb.Eq("name", eventName)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete event query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, eventQuery, eventArgs...); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete event tx: %w", err)
	}
	return nil
}

func (r *StandingsRepository) ListPlacements(ctx context.Context, eventName string) ([]standings.Placement, error) {
	query, args, err := qb.Select("*").From("placements").
		Where(qb.Eq("event_name", eventName)).
		OrderBy("rank", "participant_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list placements query: %w", err)
	}

	var rows []placementTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}

	out := make([]standings.Placement, 0, len(rows))
	for _, row := range rows {
		out = append(out, placementFromRow(row))
	}
	return out, nil
}

func (r *StandingsRepository) ListPlacementsByParticipant(ctx context.Context, participantKey, season string) ([]standings.Placement, error) {
	builder := qb.Select(
		"placements.event_name", "placements.participant_key", "placements.display_name",
		"placements.rank", "placements.team_name", "placements.raw_score",
		"placements.added_by", "placements.added_at",
	).
		From("placements JOIN events ON events.name = placements.event_name").
		Where(qb.Eq("placements.participant_key", participantKey)).
		OrderBy("placements.event_name")
	if season != "" {
		builder = builder.Where(qb.Eq("events.season", season))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participant placements query: %w", err)
	}

	var rows []placementTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list participant placements: %w", err)
	}

	out := make([]standings.Placement, 0, len(rows))
	for _, row := range rows {
		out = append(out, placementFromRow(row))
	}
	return out, nil
}

func (r *StandingsRepository) AddPlacement(ctx context.Context, p standings.Placement) error {
	insertModel := placementInsertModel{
		EventName:      p.EventName,
		ParticipantKey: p.ParticipantKey,
		DisplayName:    p.DisplayName,
		Rank:           p.Rank,
		TeamName:       p.TeamName,
		RawScore:       p.RawScore,
		AddedBy:        p.AddedBy,
		AddedAt:        p.AddedAt,
	}
	query, args, err := qb.InsertModel("placements", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert placement query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert placement: %w", err)
	}
	return nil
}

func (r *StandingsRepository) RemovePlacement(ctx context.Context, eventName, participantKey string, rank int) error {
	query, args, err := qb.DeleteFrom("placements").
		Where(
			qb.Eq("event_name", eventName),
			qb.Eq("participant_key", participantKey),
			qb.Eq("rank", rank),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete placement query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete placement: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete placement rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("placement not found: event=%s participant=%s rank=%d", eventName, participantKey, rank)
	}
	return nil
}

func (r *StandingsRepository) DeleteAll(ctx context.Context) error {
	for _, table := range []string{"placements", "events"} {
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

func eventFromRow(row eventTableModel) standings.Event {
	return standings.Event{
		Name:      row.Name,
		Season:    row.Season,
		Finished:  row.Finished,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func placementFromRow(row placementTableModel) standings.Placement {
	return standings.Placement{
		EventName:      row.EventName,
		ParticipantKey: row.ParticipantKey,
		DisplayName:    row.DisplayName,
		Rank:           row.Rank,
		TeamName:       row.TeamName,
		RawScore:       row.RawScore,
		AddedBy:        row.AddedBy,
		AddedAt:        row.AddedAt,
	}
}
