package postgres

import "time"

type scoreRecordTableModel struct {
	ScopeKey       string    `db:"scope_key"`
	Season         string    `db:"season"`
	ParticipantKey string    `db:"participant_key"`
	DisplayName    string    `db:"display_name"`
	Points         int       `db:"points"`
	FirstPlaces    int       `db:"first_places"`
	SecondPlaces   int       `db:"second_places"`
	ThirdPlaces    int       `db:"third_places"`
	FourthPlaces   int       `db:"fourth_places"`
	FifthPlaces    int       `db:"fifth_places"`
	SixthPlaces    int       `db:"sixth_places"`
	EventsPlayed   int       `db:"events_played"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type scoreRecordInsertModel struct {
	ScopeKey       string    `db:"scope_key"`
	Season         string    `db:"season"`
	ParticipantKey string    `db:"participant_key"`
	DisplayName    string    `db:"display_name"`
	Points         int       `db:"points"`
	FirstPlaces    int       `db:"first_places"`
	SecondPlaces   int       `db:"second_places"`
	ThirdPlaces    int       `db:"third_places"`
	FourthPlaces   int       `db:"fourth_places"`
	FifthPlaces    int       `db:"fifth_places"`
	SixthPlaces    int       `db:"sixth_places"`
	EventsPlayed   int       `db:"events_played"`
	UpdatedAt      time.Time `db:"updated_at"`
}
