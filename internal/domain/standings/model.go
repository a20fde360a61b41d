package standings

import (
	"fmt"
	"strings"
	"time"
)

// Event is a single competition. Name is the unique key; an event is created
// implicitly when its first placement is recorded.
type Event struct {
	Name      string
	Season    string
	Finished  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Placement records that a participant finished an event at a rank.
// At most one placement may exist per (event, participant).
type Placement struct {
	EventName      string
	ParticipantKey string
	DisplayName    string
	Rank           int
	TeamName       string
	RawScore       int
	AddedBy        string
	AddedAt        time.Time
}

func (p Placement) Validate() error {
	if strings.TrimSpace(p.EventName) == "" {
		return fmt.Errorf("placement event name is required")
	}
	if strings.TrimSpace(p.ParticipantKey) == "" {
		return fmt.Errorf("placement participant key is required")
	}
	if p.Rank < 1 {
		return fmt.Errorf("placement rank must be >= 1, got %d", p.Rank)
	}
	return nil
}
