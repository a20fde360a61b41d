package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gvfl/standings-api/internal/platform/logging"
)

// IngestionService records a batch of final standings as individual
// placements. Rows that already exist are skipped, so re-running an ingest for
// the same event is harmless.
type IngestionService struct {
	standings *StandingsService
	logger    *logging.Logger
	now       func() time.Time
}

type StandingRow struct {
	Rank     int    `json:"rank" validate:"required"`
	Name     string `json:"name" validate:"required"`
	TeamName string `json:"team_name"`
	RawScore int    `json:"raw_score"`
}

type IngestInput struct {
	EventName string        `json:"event_name" validate:"required"`
	Season    string        `json:"season"`
	Actor     string        `json:"actor"`
	Rows      []StandingRow `json:"rows" validate:"required,min=1,dive"`
	// MarkFinished flags the event once every row is in.
	MarkFinished bool `json:"mark_finished"`
}

type IngestRowResult struct {
	Row      StandingRow `json:"row"`
	Recorded bool        `json:"recorded"`
	Skipped  bool        `json:"skipped"`
	Error    string      `json:"error,omitempty"`
}

type IngestResult struct {
	EventName string            `json:"event_name"`
	Season    string            `json:"season"`
	Recorded  int               `json:"recorded"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
	Rows      []IngestRowResult `json:"rows"`
}

func NewIngestionService(standingsSvc *StandingsService, logger *logging.Logger) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		standings: standingsSvc,
		logger:    logger,
		now:       time.Now,
	}
}

// IngestFinalStandings records every row in rank order. Duplicate placements
// count as skipped; invalid rows count as failed but do not abort the batch.
func (s *IngestionService) IngestFinalStandings(ctx context.Context, input IngestInput) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestFinalStandings")
	defer span.End()

	input.EventName = strings.TrimSpace(input.EventName)
	if input.EventName == "" {
		return IngestResult{}, fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if len(input.Rows) == 0 {
		return IngestResult{}, fmt.Errorf("%w: at least one standings row is required", ErrInvalidInput)
	}

	rows := make([]StandingRow, len(input.Rows))
	copy(rows, input.Rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })

	result := IngestResult{EventName: input.EventName, Season: input.Season}
	for _, row := range rows {
		rowResult := IngestRowResult{Row: row}
		placement, err := s.standings.RecordPlacement(ctx, PlacementInput{
			EventName: input.EventName,
			Name:      row.Name,
			Rank:      row.Rank,
			Season:    input.Season,
			TeamName:  row.TeamName,
			RawScore:  row.RawScore,
			Actor:     input.Actor,
		})
		switch {
		case err == nil:
			rowResult.Recorded = true
			result.Recorded++
			result.Season = placement.Season
		case errors.Is(err, ErrDuplicatePlacement):
			rowResult.Skipped = true
			result.Skipped++
		default:
			rowResult.Error = err.Error()
			result.Failed++
			s.logger.WarnContext(ctx, "standings row rejected",
				"event", input.EventName,
				"name", row.Name,
				"rank", row.Rank,
				"error", err.Error(),
			)
		}
		result.Rows = append(result.Rows, rowResult)
	}

	if input.MarkFinished && result.Failed == 0 {
		if err := s.standings.MarkEventFinished(ctx, input.EventName); err != nil {
			return result, err
		}
	}

	s.logger.InfoContext(ctx, "standings ingested",
		"event", input.EventName,
		"recorded", result.Recorded,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}
