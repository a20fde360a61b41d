package postgres

import "time"

type auditEntryTableModel struct {
	ID             string    `db:"id"`
	Seq            int64     `db:"seq"`
	Action         string    `db:"action"`
	EventName      string    `db:"event_name"`
	ParticipantKey string    `db:"participant_key"`
	DisplayName    string    `db:"display_name"`
	Rank           int       `db:"rank"`
	Points         int       `db:"points"`
	Season         string    `db:"season"`
	Actor          string    `db:"actor"`
	Original       []byte    `db:"original"`
	CreatedAt      time.Time `db:"created_at"`
}

type auditEntryInsertModel struct {
	ID             string    `db:"id"`
	Action         string    `db:"action"`
	EventName      string    `db:"event_name"`
	ParticipantKey string    `db:"participant_key"`
	DisplayName    string    `db:"display_name"`
	Rank           int       `db:"rank"`
	Points         int       `db:"points"`
	Season         string    `db:"season"`
	Actor          string    `db:"actor"`
	Original       []byte    `db:"original"`
	CreatedAt      time.Time `db:"created_at"`
}
