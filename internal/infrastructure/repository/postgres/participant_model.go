package postgres

import "time"

type participantTableModel struct {
	PreferredKey  string    `db:"preferred_key"`
	PreferredName string    `db:"preferred_name"`
	FantasyName   string    `db:"fantasy_name"`
	DiscordID     string    `db:"discord_id"`
	DiscordName   string    `db:"discord_name"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
}

type participantInsertModel struct {
	PreferredKey  string    `db:"preferred_key"`
	PreferredName string    `db:"preferred_name"`
	FantasyName   string    `db:"fantasy_name"`
	DiscordID     string    `db:"discord_id"`
	DiscordName   string    `db:"discord_name"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
}
