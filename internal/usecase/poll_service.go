package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/gvfl/standings-api/internal/domain/fantasylink"
	"github.com/gvfl/standings-api/internal/platform/logging"
)

const defaultPollConcurrency = 4

// PollService watches fantasy links and ingests an event's final standings
// once the external game reports finished. Links are processed at most once.
type PollService struct {
	linkRepo    fantasylink.Repository
	client      FantasyClient
	ingestion   *IngestionService
	notifier    Notifier
	logger      *logging.Logger
	now         func() time.Time
	concurrency int
}

type PollLinkResult struct {
	FantasyID string `json:"fantasy_id"`
	EventName string `json:"event_name"`
	Finished  bool   `json:"finished"`
	Ingested  bool   `json:"ingested"`
	Recorded  int    `json:"recorded"`
	Skipped   int    `json:"skipped"`
	Error     string `json:"error,omitempty"`
}

type PollResult struct {
	Checked int              `json:"checked"`
	Links   []PollLinkResult `json:"links"`
}

func NewPollService(
	linkRepo fantasylink.Repository,
	client FantasyClient,
	ingestion *IngestionService,
	notifier Notifier,
	logger *logging.Logger,
) *PollService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PollService{
		linkRepo:    linkRepo,
		client:      client,
		ingestion:   ingestion,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
		concurrency: defaultPollConcurrency,
	}
}

// AddLink registers a fantasy game and league to watch for an event.
func (s *PollService) AddLink(ctx context.Context, link fantasylink.Link) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PollService.AddLink")
	defer span.End()

	link.FantasyID = strings.TrimSpace(link.FantasyID)
	link.LeagueID = strings.TrimSpace(link.LeagueID)
	link.EventName = strings.TrimSpace(link.EventName)
	if err := link.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	link.Processed = false
	link.CreatedAt = s.now().UTC()
	if err := s.linkRepo.Upsert(ctx, link); err != nil {
		return fmt.Errorf("upsert fantasy link: %w", err)
	}
	return nil
}

func (s *PollService) ListLinks(ctx context.Context) ([]fantasylink.Link, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PollService.ListLinks")
	defer span.End()

	links, err := s.linkRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fantasy links: %w", err)
	}
	return links, nil
}

// Run checks every unprocessed link against the provider. Status checks fan
// out across a bounded goroutine pool; a failing link is reported in the
// result and retried on the next run.
func (s *PollService) Run(ctx context.Context) (PollResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PollService.Run")
	defer span.End()

	links, err := s.linkRepo.ListUnprocessed(ctx)
	if err != nil {
		return PollResult{}, fmt.Errorf("list unprocessed fantasy links: %w", err)
	}

	result := PollResult{Checked: len(links)}
	if len(links) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(s.concurrency)
	for _, link := range links {
		link := link
		workers.Go(func() {
			linkResult := s.processLink(ctx, link)
			mu.Lock()
			result.Links = append(result.Links, linkResult)
			mu.Unlock()
		})
	}
	workers.Wait()

	s.logger.InfoContext(ctx, "fantasy poll completed", "checked", result.Checked)
	return result, nil
}

func (s *PollService) processLink(ctx context.Context, link fantasylink.Link) PollLinkResult {
	linkResult := PollLinkResult{FantasyID: link.FantasyID, EventName: link.EventName}

	status, err := s.client.GameStatus(ctx, link.FantasyID)
	if err != nil {
		linkResult.Error = err.Error()
		s.logger.WarnContext(ctx, "fantasy game status check failed",
			"fantasy_id", link.FantasyID,
			"error", err.Error(),
		)
		return linkResult
	}
	if !status.Finished {
		return linkResult
	}
	linkResult.Finished = true

	rows, err := s.client.LeagueStandings(ctx, link.FantasyID, link.LeagueID)
	if err != nil {
		linkResult.Error = err.Error()
		s.logger.WarnContext(ctx, "fantasy league standings fetch failed",
			"fantasy_id", link.FantasyID,
			"league_id", link.LeagueID,
			"error", err.Error(),
		)
		return linkResult
	}

	ingestRows := make([]StandingRow, 0, len(rows))
	for _, row := range rows {
		ingestRows = append(ingestRows, StandingRow{
			Rank:     row.Rank,
			Name:     row.Username,
			TeamName: row.TeamName,
			RawScore: row.Points,
		})
	}

	ingestResult, err := s.ingestion.IngestFinalStandings(ctx, IngestInput{
		EventName:    link.EventName,
		Actor:        "fantasy-poller",
		Rows:         ingestRows,
		MarkFinished: true,
	})
	if err != nil {
		linkResult.Error = err.Error()
		return linkResult
	}
	linkResult.Ingested = true
	linkResult.Recorded = ingestResult.Recorded
	linkResult.Skipped = ingestResult.Skipped

	if err := s.linkRepo.MarkProcessed(ctx, link.FantasyID); err != nil {
		linkResult.Error = err.Error()
		return linkResult
	}

	if err := s.notifier.Notify(ctx, s.formatFinishMessage(link.EventName, ingestResult)); err != nil {
		s.logger.WarnContext(ctx, "finish notification failed",
			"event", link.EventName,
			"error", err.Error(),
		)
	}
	return linkResult
}

func (s *PollService) formatFinishMessage(eventName string, result IngestResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 %s has finished!\n", eventName)
	for _, row := range result.Rows {
		if !row.Recorded && !row.Skipped {
			continue
		}
		fmt.Fprintf(&b, "%d. %s (%d pts)\n", row.Row.Rank, row.Row.Name, row.Row.RawScore)
	}
	fmt.Fprintf(&b, "Standings updated: %d recorded, %d already in.", result.Recorded, result.Skipped)
	return b.String()
}
