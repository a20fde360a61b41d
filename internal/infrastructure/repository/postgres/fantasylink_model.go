package postgres

import "time"

type fantasyLinkTableModel struct {
	FantasyID string    `db:"fantasy_id"`
	LeagueID  string    `db:"league_id"`
	EventName string    `db:"event_name"`
	Processed bool      `db:"processed"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

type fantasyLinkInsertModel struct {
	FantasyID string    `db:"fantasy_id"`
	LeagueID  string    `db:"league_id"`
	EventName string    `db:"event_name"`
	Processed bool      `db:"processed"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}
