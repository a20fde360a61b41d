package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gvfl/standings-api/internal/domain/fantasylink"
	qb "github.com/gvfl/standings-api/internal/platform/querybuilder"
)

const fantasyLinkUpsertSuffix = `ON CONFLICT (fantasy_id)
DO UPDATE SET
    league_id = EXCLUDED.league_id,
    event_name = EXCLUDED.event_name,
    processed = EXCLUDED.processed`

type FantasyLinkRepository struct {
	db *sqlx.DB
}

func NewFantasyLinkRepository(db *sqlx.DB) *FantasyLinkRepository {
	return &FantasyLinkRepository{db: db}
}

func (r *FantasyLinkRepository) List(ctx context.Context) ([]fantasylink.Link, error) {
	query, args, err := qb.Select("*").From("fantasy_links").
		OrderBy("fantasy_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fantasy links query: %w", err)
	}
	return r.selectLinks(ctx, query, args)
}

func (r *FantasyLinkRepository) ListUnprocessed(ctx context.Context) ([]fantasylink.Link, error) {
	query, args, err := qb.Select("*").From("fantasy_links").
		Where(qb.Eq("processed", false)).
		OrderBy("fantasy_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list unprocessed fantasy links query: %w", err)
	}
	return r.selectLinks(ctx, query, args)
}

func (r *FantasyLinkRepository) Upsert(ctx context.Context, link fantasylink.Link) error {
	insertModel := fantasyLinkInsertModel{
		FantasyID: link.FantasyID,
		LeagueID:  link.LeagueID,
		EventName: link.EventName,
		Processed: link.Processed,
		CreatedBy: link.CreatedBy,
		CreatedAt: link.CreatedAt,
	}
	query, args, err := qb.InsertModel("fantasy_links", insertModel, fantasyLinkUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert fantasy link query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fantasy link: %w", err)
	}
	return nil
}

func (r *FantasyLinkRepository) MarkProcessed(ctx context.Context, fantasyID string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE fantasy_links SET processed = TRUE WHERE fantasy_id = $1", fantasyID)
	if err != nil {
		return fmt.Errorf("mark fantasy link processed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark fantasy link processed rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("fantasy link not found: id=%s", fantasyID)
	}
	return nil
}

func (r *FantasyLinkRepository) DeleteAll(ctx context.Context) error {
	query, args, err := qb.DeleteFrom("fantasy_links").ToSQL()
	if err != nil {
		return fmt.Errorf("build delete fantasy links query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete fantasy links: %w", err)
	}
	return nil
}

func (r *FantasyLinkRepository) selectLinks(ctx context.Context, query string, args []any) ([]fantasylink.Link, error) {
	var rows []fantasyLinkTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list fantasy links: %w", err)
	}

	out := make([]fantasylink.Link, 0, len(rows))
	for _, row := range rows {
		out = append(out, fantasylink.Link{
			FantasyID: row.FantasyID,
			LeagueID:  row.LeagueID,
			EventName: row.EventName,
			Processed: row.Processed,
			CreatedBy: row.CreatedBy,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
