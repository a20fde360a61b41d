package postgres

import "time"

type eventTableModel struct {
	Name      string    `db:"name"`
	Season    string    `db:"season"`
	Finished  bool      `db:"finished"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type eventInsertModel struct {
	Name      string    `db:"name"`
	Season    string    `db:"season"`
	Finished  bool      `db:"finished"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type placementTableModel struct {
	EventName      string    `db:"event_name"`
	ParticipantKey string    `db:"participant_key"`
	DisplayName    string    `db:"display_name"`
	Rank           int       `db:"rank"`
	TeamName       string    `db:"team_name"`
	RawScore       int       `db:"raw_score"`
	AddedBy        string    `db:"added_by"`
	AddedAt        time.Time `db:"added_at"`
}

type placementInsertModel struct {
	EventName      string    `db:"event_name"`
	ParticipantKey string    `db:"participant_key"`
	DisplayName    string    `db:"display_name"`
	Rank           int       `db:"rank"`
	TeamName       string    `db:"team_name"`
	RawScore       int       `db:"raw_score"`
	AddedBy        string    `db:"added_by"`
	AddedAt        time.Time `db:"added_at"`
}
