package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gvfl/standings-api/internal/domain/fantasylink"
	"github.com/gvfl/standings-api/internal/platform/logging"
)

type fakeFantasyClient struct {
	mu        sync.Mutex
	status    map[string]FantasyGameStatus
	standings map[string][]FantasyStandingRow
	statusErr error
}

func (c *fakeFantasyClient) GameStatus(_ context.Context, fantasyID string) (FantasyGameStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statusErr != nil {
		return FantasyGameStatus{}, c.statusErr
	}
	return c.status[fantasyID], nil
}

func (c *fakeFantasyClient) LeagueStandings(_ context.Context, fantasyID, _ string) ([]FantasyStandingRow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.standings[fantasyID], nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func newPollFixture(t *testing.T, client FantasyClient, notifier Notifier) (*leagueFixture, *PollService) {
	t.Helper()

	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")
	poll := NewPollService(f.links, client, f.ingestion, notifier, logging.NewNop())
	return f, poll
}

func TestPollRun_SkipsUnfinishedGame(t *testing.T) {
	client := &fakeFantasyClient{
		status: map[string]FantasyGameStatus{
			"game-1": {EventName: "major-berlin", Started: true, Finished: false},
		},
	}
	f, poll := newPollFixture(t, client, nil)

	if err := poll.AddLink(t.Context(), fantasylink.Link{
		FantasyID: "game-1", LeagueID: "league-1", EventName: "major-berlin",
	}); err != nil {
		t.Fatalf("add link: %v", err)
	}

	result, err := poll.Run(t.Context())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Checked != 1 {
		t.Fatalf("expected 1 checked link, got %d", result.Checked)
	}
	if result.Links[0].Finished || result.Links[0].Ingested {
		t.Fatalf("unfinished game must not be ingested, got %+v", result.Links[0])
	}

	unprocessed, err := f.links.ListUnprocessed(t.Context())
	if err != nil {
		t.Fatalf("list unprocessed: %v", err)
	}
	if len(unprocessed) != 1 {
		t.Fatalf("expected link still pending, got %d", len(unprocessed))
	}
}

func TestPollRun_IngestsFinishedGame(t *testing.T) {
	client := &fakeFantasyClient{
		status: map[string]FantasyGameStatus{
			"game-1": {EventName: "major-berlin", Started: true, Finished: true},
		},
		standings: map[string][]FantasyStandingRow{
			"game-1": {
				{Rank: 1, Username: "Alice", TeamName: "Wonder XI", Points: 812},
				{Rank: 2, Username: "Bob", TeamName: "Builders", Points: 701},
			},
		},
	}
	notifier := &recordingNotifier{}
	f, poll := newPollFixture(t, client, notifier)

	if err := poll.AddLink(t.Context(), fantasylink.Link{
		FantasyID: "game-1", LeagueID: "league-1", EventName: "major-berlin",
	}); err != nil {
		t.Fatalf("add link: %v", err)
	}

	result, err := poll.Run(t.Context())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Links[0].Ingested || result.Links[0].Recorded != 2 {
		t.Fatalf("expected 2 recorded rows, got %+v", result.Links[0])
	}

	event, placements, err := f.standingsSvc.EventStandings(t.Context(), "major-berlin")
	if err != nil {
		t.Fatalf("event standings: %v", err)
	}
	if !event.Finished {
		t.Fatal("expected event finished after poll ingest")
	}
	if len(placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(placements))
	}

	unprocessed, err := f.links.ListUnprocessed(t.Context())
	if err != nil {
		t.Fatalf("list unprocessed: %v", err)
	}
	if len(unprocessed) != 0 {
		t.Fatal("expected link marked processed")
	}

	if len(notifier.messages) != 1 {
		t.Fatalf("expected one finish notification, got %d", len(notifier.messages))
	}
}

func TestPollRun_StatusErrorRetriedNextRun(t *testing.T) {
	client := &fakeFantasyClient{statusErr: errors.New("provider down")}
	f, poll := newPollFixture(t, client, nil)

	if err := poll.AddLink(t.Context(), fantasylink.Link{
		FantasyID: "game-1", LeagueID: "league-1", EventName: "major-berlin",
	}); err != nil {
		t.Fatalf("add link: %v", err)
	}

	result, err := poll.Run(t.Context())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Links[0].Error == "" {
		t.Fatal("expected the failure reported on the link result")
	}

	unprocessed, err := f.links.ListUnprocessed(t.Context())
	if err != nil {
		t.Fatalf("list unprocessed: %v", err)
	}
	if len(unprocessed) != 1 {
		t.Fatal("failed link must stay pending for the next run")
	}

	// Provider recovers: the same link is picked up again.
	client.mu.Lock()
	client.statusErr = nil
	client.status = map[string]FantasyGameStatus{
		"game-1": {EventName: "major-berlin", Finished: true},
	}
	client.standings = map[string][]FantasyStandingRow{
		"game-1": {{Rank: 1, Username: "Alice"}},
	}
	client.mu.Unlock()

	if _, err := poll.Run(t.Context()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	unprocessed, err = f.links.ListUnprocessed(t.Context())
	if err != nil {
		t.Fatalf("list unprocessed: %v", err)
	}
	if len(unprocessed) != 0 {
		t.Fatal("expected link processed after recovery")
	}
}

func TestAddLink_Invalid(t *testing.T) {
	_, poll := newPollFixture(t, &fakeFantasyClient{}, nil)

	err := poll.AddLink(t.Context(), fantasylink.Link{FantasyID: "game-1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
