package httpapi

import (
	"time"

	"github.com/gvfl/standings-api/internal/domain/auditlog"
	"github.com/gvfl/standings-api/internal/domain/fantasylink"
	"github.com/gvfl/standings-api/internal/domain/participant"
	"github.com/gvfl/standings-api/internal/domain/score"
	"github.com/gvfl/standings-api/internal/domain/season"
	"github.com/gvfl/standings-api/internal/domain/standings"
	"github.com/gvfl/standings-api/internal/usecase"
)

type eventDTO struct {
	Name      string    `json:"name"`
	Season    string    `json:"season"`
	Finished  bool      `json:"finished"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type placementDTO struct {
	EventName      string    `json:"event_name"`
	ParticipantKey string    `json:"participant_key"`
	DisplayName    string    `json:"display_name"`
	Rank           int       `json:"rank"`
	TeamName       string    `json:"team_name,omitempty"`
	RawScore       int       `json:"raw_score,omitempty"`
	AddedBy        string    `json:"added_by,omitempty"`
	AddedAt        time.Time `json:"added_at"`
}

type eventStandingsDTO struct {
	Event      eventDTO       `json:"event"`
	Placements []placementDTO `json:"placements"`
}

type scoreRecordDTO struct {
	Position       int       `json:"position"`
	ParticipantKey string    `json:"participant_key"`
	DisplayName    string    `json:"display_name"`
	Points         int       `json:"points"`
	First          int       `json:"first_places"`
	Second         int       `json:"second_places"`
	Third          int       `json:"third_places"`
	Fourth         int       `json:"fourth_places"`
	Fifth          int       `json:"fifth_places"`
	Sixth          int       `json:"sixth_places"`
	Events         int       `json:"events_played,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type leaderboardDTO struct {
	Season  string           `json:"season,omitempty"`
	AllTime bool             `json:"all_time"`
	Records []scoreRecordDTO `json:"records"`
}

type participantDTO struct {
	PreferredName string    `json:"preferred_name"`
	FantasyName   string    `json:"fantasy_name,omitempty"`
	DiscordID     string    `json:"discord_id,omitempty"`
	DiscordName   string    `json:"discord_name,omitempty"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type winnerDTO struct {
	Season         string    `json:"season"`
	ParticipantKey string    `json:"participant_key"`
	DisplayName    string    `json:"display_name"`
	Points         int       `json:"points"`
	DecidedAt      time.Time `json:"decided_at"`
}

type seasonDTO struct {
	Name      string     `json:"name"`
	Current   bool       `json:"current"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Winner    *winnerDTO `json:"winner,omitempty"`
}

type auditEntryDTO struct {
	ID             string         `json:"id"`
	Seq            int64          `json:"seq"`
	Action         string         `json:"action"`
	EventName      string         `json:"event_name,omitempty"`
	ParticipantKey string         `json:"participant_key,omitempty"`
	DisplayName    string         `json:"display_name,omitempty"`
	Rank           int            `json:"rank,omitempty"`
	Points         int            `json:"points,omitempty"`
	Season         string         `json:"season,omitempty"`
	Actor          string         `json:"actor,omitempty"`
	Original       *auditEntryDTO `json:"original,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

type fantasyLinkDTO struct {
	FantasyID string    `json:"fantasy_id"`
	LeagueID  string    `json:"league_id"`
	EventName string    `json:"event_name"`
	Processed bool      `json:"processed"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toEventDTO(e standings.Event) eventDTO {
	return eventDTO{
		Name:      e.Name,
		Season:    e.Season,
		Finished:  e.Finished,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toPlacementDTOs(placements []standings.Placement) []placementDTO {
	out := make([]placementDTO, 0, len(placements))
	for _, p := range placements {
		out = append(out, placementDTO{
			EventName:      p.EventName,
			ParticipantKey: p.ParticipantKey,
			DisplayName:    p.DisplayName,
			Rank:           p.Rank,
			TeamName:       p.TeamName,
			RawScore:       p.RawScore,
			AddedBy:        p.AddedBy,
			AddedAt:        p.AddedAt,
		})
	}
	return out
}

func toLeaderboardDTO(board usecase.Leaderboard) leaderboardDTO {
	records := make([]scoreRecordDTO, 0, len(board.Records))
	for i, r := range board.Records {
		records = append(records, toScoreRecordDTO(i+1, r))
	}
	return leaderboardDTO{
		Season:  board.Season,
		AllTime: board.AllTime,
		Records: records,
	}
}

func toScoreRecordDTO(position int, r score.Record) scoreRecordDTO {
	return scoreRecordDTO{
		Position:       position,
		ParticipantKey: r.ParticipantKey,
		DisplayName:    r.DisplayName,
		Points:         r.Points,
		First:          r.First,
		Second:         r.Second,
		Third:          r.Third,
		Fourth:         r.Fourth,
		Fifth:          r.Fifth,
		Sixth:          r.Sixth,
		Events:         r.Events,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toParticipantDTO(p participant.Participant) participantDTO {
	return participantDTO{
		PreferredName: p.PreferredName,
		FantasyName:   p.FantasyName,
		DiscordID:     p.DiscordID,
		DiscordName:   p.DiscordName,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
	}
}

func toWinnerDTO(w season.Winner) winnerDTO {
	return winnerDTO{
		Season:         w.Season,
		ParticipantKey: w.ParticipantKey,
		DisplayName:    w.DisplayName,
		Points:         w.Points,
		DecidedAt:      w.DecidedAt,
	}
}

func toSeasonDTO(summary usecase.SeasonSummary) seasonDTO {
	dto := seasonDTO{
		Name:      summary.Season.Name,
		Current:   summary.Current,
		CreatedBy: summary.Season.CreatedBy,
		CreatedAt: summary.Season.CreatedAt,
		EndedAt:   summary.Season.EndedAt,
	}
	if summary.Winner != nil {
		w := toWinnerDTO(*summary.Winner)
		dto.Winner = &w
	}
	return dto
}

func toAuditEntryDTO(e auditlog.Entry) auditEntryDTO {
	dto := auditEntryDTO{
		ID:             e.ID,
		Seq:            e.Seq,
		Action:         string(e.Action),
		EventName:      e.EventName,
		ParticipantKey: e.ParticipantKey,
		DisplayName:    e.DisplayName,
		Rank:           e.Rank,
		Points:         e.Points,
		Season:         e.Season,
		Actor:          e.Actor,
		CreatedAt:      e.CreatedAt,
	}
	if e.Original != nil {
		original := toAuditEntryDTO(*e.Original)
		dto.Original = &original
	}
	return dto
}

func toFantasyLinkDTO(l fantasylink.Link) fantasyLinkDTO {
	return fantasyLinkDTO{
		FantasyID: l.FantasyID,
		LeagueID:  l.LeagueID,
		EventName: l.EventName,
		Processed: l.Processed,
		CreatedBy: l.CreatedBy,
		CreatedAt: l.CreatedAt,
	}
}
