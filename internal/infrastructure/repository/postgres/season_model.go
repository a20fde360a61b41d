package postgres

import (
	"database/sql"
	"time"
)

type seasonTableModel struct {
	Name      string       `db:"name"`
	CreatedBy string       `db:"created_by"`
	CreatedAt time.Time    `db:"created_at"`
	EndedAt   sql.NullTime `db:"ended_at"`
}

type seasonInsertModel struct {
	Name      string     `db:"name"`
	CreatedBy string     `db:"created_by"`
	CreatedAt time.Time  `db:"created_at"`
	EndedAt   *time.Time `db:"ended_at"`
}

type seasonWinnerTableModel struct {
	Season         string    `db:"season"`
	ParticipantKey string    `db:"participant_key"`
	DisplayName    string    `db:"display_name"`
	Points         int       `db:"points"`
	DecidedAt      time.Time `db:"decided_at"`
}

type seasonWinnerInsertModel struct {
	Season         string    `db:"season"`
	ParticipantKey string    `db:"participant_key"`
	DisplayName    string    `db:"display_name"`
	Points         int       `db:"points"`
	DecidedAt      time.Time `db:"decided_at"`
}
