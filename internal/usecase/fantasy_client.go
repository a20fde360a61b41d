package usecase

import "context"

// FantasyGameStatus is the lifecycle state of an external fantasy game.
type FantasyGameStatus struct {
	EventName string
	Started   bool
	Finished  bool
}

// FantasyStandingRow is one row of an external fantasy league's final table.
type FantasyStandingRow struct {
	Rank     int
	Username string
	TeamName string
	Points   int
}

// FantasyClient reads game state and league standings from the external
// fantasy provider.
type FantasyClient interface {
	GameStatus(ctx context.Context, fantasyID string) (FantasyGameStatus, error)
	LeagueStandings(ctx context.Context, fantasyID, leagueID string) ([]FantasyStandingRow, error)
}
