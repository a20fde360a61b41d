package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/gvfl/standings-api/internal/domain/auditlog"
	"github.com/gvfl/standings-api/internal/platform/id"
	qb "github.com/gvfl/standings-api/internal/platform/querybuilder"
)

// AuditLogRepository persists the reconciliation log. Seq comes from a
// bigserial column, so ordering survives restarts and deletions. The undo
// snapshot is stored as a JSON blob.
type AuditLogRepository struct {
	db    *sqlx.DB
	idgen id.Generator
}

func NewAuditLogRepository(db *sqlx.DB, idgen id.Generator) *AuditLogRepository {
	if idgen == nil {
		idgen = id.NewRandomGenerator()
	}
	return &AuditLogRepository{db: db, idgen: idgen}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry auditlog.Entry) (auditlog.Entry, error) {
	entryID, err := r.idgen.NewID()
	if err != nil {
		return auditlog.Entry{}, fmt.Errorf("generate entry id: %w", err)
	}
	entry.ID = entryID

	var original []byte
	if entry.Original != nil {
		original, err = sonic.Marshal(entry.Original)
		if err != nil {
			return auditlog.Entry{}, fmt.Errorf("marshal original entry snapshot: %w", err)
		}
	}

	insertModel := auditEntryInsertModel{
		ID:             entry.ID,
		Action:         string(entry.Action),
		EventName:      entry.EventName,
		ParticipantKey: entry.ParticipantKey,
		DisplayName:    entry.DisplayName,
		Rank:           entry.Rank,
		Points:         entry.Points,
		Season:         entry.Season,
		Actor:          entry.Actor,
		Original:       original,
		CreatedAt:      entry.CreatedAt,
	}
	query, args, err := qb.InsertModel("audit_entries", insertModel, "RETURNING seq")
	if err != nil {
		return auditlog.Entry{}, fmt.Errorf("build insert audit entry query: %w", err)
	}
	if err := r.db.GetContext(ctx, &entry.Seq, query, args...); err != nil {
		return auditlog.Entry{}, fmt.Errorf("insert audit entry: %w", err)
	}
	return entry, nil
}

func (r *AuditLogRepository) Latest(ctx context.Context) (auditlog.Entry, bool, error) {
	query, args, err := qb.Select("*").From("audit_entries").
		OrderBy("seq DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return auditlog.Entry{}, false, fmt.Errorf("build latest audit entry query: %w", err)
	}

	var row auditEntryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return auditlog.Entry{}, false, nil
		}
		return auditlog.Entry{}, false, fmt.Errorf("get latest audit entry: %w", err)
	}
	entry, err := auditEntryFromRow(row)
	if err != nil {
		return auditlog.Entry{}, false, err
	}
	return entry, true, nil
}

func (r *AuditLogRepository) ListRecent(ctx context.Context, limit int) ([]auditlog.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	query, args, err := qb.Select("*").From("audit_entries").
		OrderBy("seq DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list audit entries query: %w", err)
	}

	var rows []auditEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	out := make([]auditlog.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := auditEntryFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *AuditLogRepository) Delete(ctx context.Context, entryID string) error {
	query, args, err := qb.DeleteFrom("audit_entries").
		Where(qb.Eq("id", entryID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete audit entry query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete audit entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete audit entry rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("audit entry not found: id=%s", entryID)
	}
	return nil
}

func (r *AuditLogRepository) DeleteAll(ctx context.Context) error {
	query, args, err := qb.DeleteFrom("audit_entries").ToSQL()
	if err != nil {
		return fmt.Errorf("build delete audit entries query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete audit entries: %w", err)
	}
	return nil
}

func auditEntryFromRow(row auditEntryTableModel) (auditlog.Entry, error) {
	entry := auditlog.Entry{
		ID:             row.ID,
		Seq:            row.Seq,
		Action:         auditlog.Action(row.Action),
		EventName:      row.EventName,
		ParticipantKey: row.ParticipantKey,
		DisplayName:    row.DisplayName,
		Rank:           row.Rank,
		Points:         row.Points,
		Season:         row.Season,
		Actor:          row.Actor,
		CreatedAt:      row.CreatedAt,
	}
	if len(row.Original) > 0 {
		var original auditlog.Entry
		if err := sonic.Unmarshal(row.Original, &original); err != nil {
			return auditlog.Entry{}, fmt.Errorf("unmarshal original entry snapshot: %w", err)
		}
		entry.Original = &original
	}
	return entry, nil
}
