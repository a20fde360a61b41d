package auditlog

import (
	"strings"
	"time"
)

// Action is the kind of mutation an entry records.
type Action string

const (
	ActionAdd          Action = "add"
	ActionRemove       Action = "remove"
	ActionUndo         Action = "undo"
	ActionPurgeEvent   Action = "purge_event"
	ActionRemoveSeason Action = "remove_season"
	ActionNuke         Action = "nuke"
)

// Entry is an immutable audit record of one mutation. Seq is assigned by the
// repository and totally orders entries; wall-clock timestamps alone are not
// enough to pick the undo target.
type Entry struct {
	ID             string
	Seq            int64
	Action         Action
	EventName      string
	ParticipantKey string
	DisplayName    string
	Rank           int
	Points         int
	Season         string
	Actor          string
	// Original snapshots the entry an undo reversed.
	Original  *Entry
	CreatedAt time.Time
}

// Undoable reports whether the entry can serve as an undo target.
func (e Entry) Undoable() bool {
	return e.Action == ActionAdd || e.Action == ActionRemove
}

// Complete reports whether the entry carries every field needed to replay its
// inverse.
func (e Entry) Complete() bool {
	return strings.TrimSpace(e.EventName) != "" &&
		strings.TrimSpace(e.ParticipantKey) != "" &&
		e.Rank >= 1
}
