package participant

import (
	"fmt"
	"strings"
	"time"
)

// Participant is a registered league member. PreferredName is the canonical
// display name; FantasyName and DiscordID are aliases used by ingestion.
type Participant struct {
	PreferredName string
	FantasyName   string
	DiscordID     string
	DiscordName   string
	CreatedBy     string
	CreatedAt     time.Time
}

// Identity is the result of resolving a raw name: a storage key plus the
// display name to show in standings and leaderboards.
type Identity struct {
	Key         string
	DisplayName string
}

// NormalizeKey derives the storage key for a name: lowercase with whitespace
// collapsed to underscores. This is the only place the transform lives.
func NormalizeKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "_")
}

// IdentityFor builds the Identity for a display name.
func IdentityFor(displayName string) Identity {
	return Identity{
		Key:         NormalizeKey(displayName),
		DisplayName: strings.TrimSpace(displayName),
	}
}

func (p Participant) Validate() error {
	if strings.TrimSpace(p.PreferredName) == "" {
		return fmt.Errorf("participant preferred name is required")
	}
	return nil
}
