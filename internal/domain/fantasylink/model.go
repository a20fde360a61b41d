package fantasylink

import (
	"fmt"
	"strings"
	"time"
)

// Link ties an external fantasy game and league to a local event name. The
// poller watches unprocessed links and ingests final standings once the game
// finishes.
type Link struct {
	FantasyID string
	LeagueID  string
	EventName string
	Processed bool
	CreatedBy string
	CreatedAt time.Time
}

func (l Link) Validate() error {
	if strings.TrimSpace(l.FantasyID) == "" {
		return fmt.Errorf("fantasy id is required")
	}
	if strings.TrimSpace(l.LeagueID) == "" {
		return fmt.Errorf("league id is required")
	}
	if strings.TrimSpace(l.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	return nil
}
