package season

import (
	"fmt"
	"strings"
	"time"
)

// Season groups events and their scores under one competitive period.
type Season struct {
	Name      string
	CreatedBy string
	CreatedAt time.Time
	EndedAt   *time.Time
}

// Winner is the participant who topped a season's leaderboard when it ended.
type Winner struct {
	Season         string
	ParticipantKey string
	DisplayName    string
	Points         int
	DecidedAt      time.Time
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("season name is required")
	}
	return nil
}
