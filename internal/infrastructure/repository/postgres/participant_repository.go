package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/gvfl/standings-api/internal/domain/participant"
	qb "github.com/gvfl/standings-api/internal/platform/querybuilder"
)

const participantUpsertSuffix = `ON CONFLICT (preferred_key)
DO UPDATE SET
    preferred_name = EXCLUDED.preferred_name,
    fantasy_name = EXCLUDED.fantasy_name,
    discord_id = EXCLUDED.discord_id,
    discord_name = EXCLUDED.discord_name`

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) List(ctx context.Context) ([]participant.Participant, error) {
	query, args, err := qb.Select("*").From("participants").
		OrderBy("preferred_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	out := make([]participant.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, participantFromRow(row))
	}
	return out, nil
}

func (r *ParticipantRepository) GetByPreferredName(ctx context.Context, name string) (participant.Participant, bool, error) {
	query, args, err := qb.Select("*").From("participants").
		Where(qb.Eq("preferred_key", participant.NormalizeKey(name))).
		Limit(1).
		ToSQL()
	if err != nil {
		return participant.Participant{}, false, fmt.Errorf("build get participant query: %w", err)
	}

	var row participantTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return participant.Participant{}, false, nil
		}
		return participant.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}
	return participantFromRow(row), true, nil
}

func (r *ParticipantRepository) GetByAlias(ctx context.Context, alias string) (participant.Participant, bool, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return participant.Participant{}, false, nil
	}

	// Alias columns are checked in resolution order.
	for _, column := range []string{"fantasy_name", "discord_name", "discord_id"} {
		query, args, err := qb.Select("*").From("participants").
			Where(qb.EqFold(column, alias)).
			Limit(1).
			ToSQL()
		if err != nil {
			return participant.Participant{}, false, fmt.Errorf("build get participant by alias query: %w", err)
		}

		var row participantTableModel
		if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
			if isNotFound(err) {
				continue
			}
			return participant.Participant{}, false, fmt.Errorf("get participant by alias: %w", err)
		}
		return participantFromRow(row), true, nil
	}
	return participant.Participant{}, false, nil
}

func (r *ParticipantRepository) Upsert(ctx context.Context, p participant.Participant) error {
	insertModel := participantInsertModel{
		PreferredKey:  participant.NormalizeKey(p.PreferredName),
		PreferredName: strings.TrimSpace(p.PreferredName),
		FantasyName:   strings.TrimSpace(p.FantasyName),
		DiscordID:     strings.TrimSpace(p.DiscordID),
		DiscordName:   strings.TrimSpace(p.DiscordName),
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
	}
	query, args, err := qb.InsertModel("participants", insertModel, participantUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert participant query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, name string) error {
	query, args, err := qb.DeleteFrom("participants").
		Where(qb.Eq("preferred_key", participant.NormalizeKey(name))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete participant query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return nil
}

func participantFromRow(row participantTableModel) participant.Participant {
	return participant.Participant{
		PreferredName: row.PreferredName,
		FantasyName:   row.FantasyName,
		DiscordID:     row.DiscordID,
		DiscordName:   row.DiscordName,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt,
	}
}
