package usecase

import (
	"errors"
	"testing"

	"github.com/gvfl/standings-api/internal/domain/auditlog"
	"github.com/gvfl/standings-api/internal/domain/score"
)

func TestCreateSeason_FirstBecomesCurrent(t *testing.T) {
	f := newLeagueFixture(t)

	if _, err := f.seasonSvc.Create(t.Context(), "spring-2026", "admin"); err != nil {
		t.Fatalf("create spring: %v", err)
	}
	if _, err := f.seasonSvc.Create(t.Context(), "summer-2026", "admin"); err != nil {
		t.Fatalf("create summer: %v", err)
	}

	current, err := f.seasonSvc.Current(t.Context())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current != "spring-2026" {
		t.Fatalf("expected first season to stay current, got %s", current)
	}
}

func TestCreateSeason_DuplicateRejected(t *testing.T) {
	f := newLeagueFixture(t)

	if _, err := f.seasonSvc.Create(t.Context(), "spring-2026", "admin"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.seasonSvc.Create(t.Context(), "spring-2026", "admin"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSelectSeason_UnknownRejected(t *testing.T) {
	f := newLeagueFixture(t)

	if err := f.seasonSvc.Select(t.Context(), "ghost-season"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEndSeason_RecordsWinner(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("record alice: %v", err)
	}
	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Bob", Rank: 2,
	}); err != nil {
		t.Fatalf("record bob: %v", err)
	}

	winner, err := f.seasonSvc.End(t.Context(), "admin")
	if err != nil {
		t.Fatalf("end season: %v", err)
	}
	if winner == nil || winner.ParticipantKey != "alice" || winner.Points != 10 {
		t.Fatalf("expected alice to win with 10 points, got %+v", winner)
	}

	if _, err := f.seasonSvc.Current(t.Context()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no current season after end, got %v", err)
	}

	summaries, err := f.seasonSvc.List(t.Context())
	if err != nil {
		t.Fatalf("list seasons: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 season, got %d", len(summaries))
	}
	if summaries[0].Season.EndedAt == nil {
		t.Fatal("expected ended_at set")
	}
	if summaries[0].Winner == nil || summaries[0].Winner.ParticipantKey != "alice" {
		t.Fatalf("expected winner attached to summary, got %+v", summaries[0].Winner)
	}
}

func TestEndSeason_NoScoresNoWinner(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	winner, err := f.seasonSvc.End(t.Context(), "admin")
	if err != nil {
		t.Fatalf("end season: %v", err)
	}
	if winner != nil {
		t.Fatalf("expected no winner for an empty season, got %+v", winner)
	}
}

func TestRemoveSeason_RebuildsAllTime(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("record spring: %v", err)
	}
	f.withCurrentSeason(t, "summer-2026")
	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-oslo", Name: "Alice", Rank: 3,
	}); err != nil {
		t.Fatalf("record summer: %v", err)
	}

	if err := f.seasonSvc.Remove(t.Context(), "spring-2026", "admin"); err != nil {
		t.Fatalf("remove season: %v", err)
	}

	if _, ok := f.seasonRecord(t, "spring-2026", "alice"); ok {
		t.Fatal("expected spring score scope deleted")
	}
	allTime, ok := f.allTimeRecord(t, "alice")
	if !ok {
		t.Fatal("expected all-time record to survive")
	}
	if allTime.Points != 4 || allTime.Events != 1 || allTime.First != 0 {
		t.Fatalf("expected all-time rebuilt from summer only, got %+v", allTime)
	}

	events, err := f.standingsSvc.ListEvents(t.Context(), "spring-2026")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected spring events deleted, got %d", len(events))
	}
}

func TestRemoveSeason_ClearsCurrentPointer(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if err := f.seasonSvc.Remove(t.Context(), "spring-2026", "admin"); err != nil {
		t.Fatalf("remove season: %v", err)
	}
	if _, err := f.seasonSvc.Current(t.Context()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected current pointer cleared, got %v", err)
	}
}

func TestNuke_RequiresConfirmation(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if err := f.seasonSvc.Nuke(t.Context(), "admin", false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without confirmation, got %v", err)
	}
}

func TestNuke_WipesEverything(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := f.seasonSvc.Nuke(t.Context(), "admin", true); err != nil {
		t.Fatalf("nuke: %v", err)
	}

	if records, err := f.scores.ListByScope(t.Context(), score.AllTime); err != nil || len(records) != 0 {
		t.Fatalf("expected no score records, got %d err=%v", len(records), err)
	}
	if events, err := f.standingsSvc.ListEvents(t.Context(), ""); err != nil || len(events) != 0 {
		t.Fatalf("expected no events, got %d err=%v", len(events), err)
	}
	if _, err := f.seasonSvc.Current(t.Context()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no current season, got %v", err)
	}

	entries, err := f.standingsSvc.RecentLog(t.Context(), 0)
	if err != nil {
		t.Fatalf("recent log: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != auditlog.ActionNuke {
		t.Fatalf("expected a single nuke entry on record, got %+v", entries)
	}
}
