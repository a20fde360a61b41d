package usecase

import (
	"errors"
	"testing"

	"github.com/gvfl/standings-api/internal/domain/auditlog"
)

func TestRecordPlacement_ProjectsSeasonAndAllTime(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	result, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin",
		Name:      "Alice",
		Rank:      1,
		Actor:     "admin",
	})
	if err != nil {
		t.Fatalf("record placement: %v", err)
	}
	if result.ParticipantKey != "alice" {
		t.Fatalf("expected key alice, got %s", result.ParticipantKey)
	}
	if result.Points != 10 {
		t.Fatalf("expected 10 points for rank 1, got %d", result.Points)
	}
	if result.Season != "spring-2026" {
		t.Fatalf("expected event assigned to current season, got %s", result.Season)
	}

	seasonRec, ok := f.seasonRecord(t, "spring-2026", "alice")
	if !ok {
		t.Fatal("expected season record for alice")
	}
	if seasonRec.Points != 10 || seasonRec.First != 1 {
		t.Fatalf("unexpected season record: points=%d first=%d", seasonRec.Points, seasonRec.First)
	}
	if seasonRec.Events != 0 {
		t.Fatalf("events counter must stay zero outside all-time, got %d", seasonRec.Events)
	}

	allTime, ok := f.allTimeRecord(t, "alice")
	if !ok {
		t.Fatal("expected all-time record for alice")
	}
	if allTime.Points != 10 || allTime.First != 1 || allTime.Events != 1 {
		t.Fatalf("unexpected all-time record: points=%d first=%d events=%d", allTime.Points, allTime.First, allTime.Events)
	}
}

func TestRecordPlacement_DuplicateParticipantRejected(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("first record: %v", err)
	}

	_, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "alice", Rank: 4,
	})
	if !errors.Is(err, ErrDuplicatePlacement) {
		t.Fatalf("expected ErrDuplicatePlacement, got %v", err)
	}

	seasonRec, _ := f.seasonRecord(t, "spring-2026", "alice")
	if seasonRec.Points != 10 {
		t.Fatalf("rejected placement must not change points, got %d", seasonRec.Points)
	}
}

func TestRecordPlacement_InvalidRank(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	for _, rank := range []int{0, -3} {
		_, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
			EventName: "major-berlin", Name: "Alice", Rank: rank,
		})
		if !errors.Is(err, ErrInvalidRank) {
			t.Fatalf("rank %d: expected ErrInvalidRank, got %v", rank, err)
		}
	}
}

func TestRecordPlacement_UnrewardedRankStillCounts(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	result, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 9,
	})
	if err != nil {
		t.Fatalf("record placement: %v", err)
	}
	if result.Points != 0 {
		t.Fatalf("rank 9 must be worth zero points, got %d", result.Points)
	}

	allTime, ok := f.allTimeRecord(t, "alice")
	if !ok {
		t.Fatal("expected all-time record even for a zero-point placement")
	}
	if allTime.Events != 1 {
		t.Fatalf("expected events counter 1, got %d", allTime.Events)
	}
}

func TestRecordPlacement_ExistingEventSeasonWins(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("first record: %v", err)
	}

	f.withCurrentSeason(t, "summer-2026")
	result, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Bob", Rank: 2, Season: "summer-2026",
	})
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	if result.Season != "spring-2026" {
		t.Fatalf("existing event keeps its season, got %s", result.Season)
	}
}

func TestRecordPlacement_NoActiveSeason(t *testing.T) {
	f := newLeagueFixture(t)

	_, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without an active season, got %v", err)
	}
}

func TestRemovePlacement_ReversesProjection(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 2,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	result, err := f.standingsSvc.RemovePlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "ALICE", Rank: 2,
	})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if result.Points != 6 {
		t.Fatalf("expected removed placement worth 6 points, got %d", result.Points)
	}

	seasonRec, _ := f.seasonRecord(t, "spring-2026", "alice")
	if seasonRec.Points != 0 || seasonRec.Second != 0 {
		t.Fatalf("expected zeroed season record, got points=%d second=%d", seasonRec.Points, seasonRec.Second)
	}
	allTime, _ := f.allTimeRecord(t, "alice")
	if allTime.Points != 0 || allTime.Events != 0 {
		t.Fatalf("expected zeroed all-time record, got points=%d events=%d", allTime.Points, allTime.Events)
	}

	_, placements, err := f.standingsSvc.EventStandings(t.Context(), "major-berlin")
	if err != nil {
		t.Fatalf("event standings: %v", err)
	}
	if len(placements) != 0 {
		t.Fatalf("expected no placements left, got %d", len(placements))
	}
}

func TestRemovePlacement_RankMustMatch(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 2,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	_, err := f.standingsSvc.RemovePlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 3,
	})
	if !errors.Is(err, ErrPlacementNotFound) {
		t.Fatalf("expected ErrPlacementNotFound, got %v", err)
	}
}

func TestRemovePlacement_UnknownEvent(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	_, err := f.standingsSvc.RemovePlacement(t.Context(), PlacementInput{
		EventName: "ghost-event", Name: "Alice", Rank: 1,
	})
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestUndoLast_ReversesAdd(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	result, err := f.standingsSvc.UndoLast(t.Context(), "admin")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if result.Action != auditlog.ActionAdd {
		t.Fatalf("expected undone action add, got %s", result.Action)
	}

	seasonRec, _ := f.seasonRecord(t, "spring-2026", "alice")
	if seasonRec.Points != 0 {
		t.Fatalf("expected points reversed to 0, got %d", seasonRec.Points)
	}

	latest, ok, err := f.auditLog.Latest(t.Context())
	if err != nil || !ok {
		t.Fatalf("latest log entry: ok=%v err=%v", ok, err)
	}
	if latest.Action != auditlog.ActionUndo {
		t.Fatalf("expected undo entry on top of the log, got %s", latest.Action)
	}
	if latest.Original == nil || latest.Original.Action != auditlog.ActionAdd {
		t.Fatal("undo entry must snapshot the reversed entry")
	}
}

func TestUndoLast_ReversesRemove(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := f.standingsSvc.RemovePlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("remove: %v", err)
	}

	result, err := f.standingsSvc.UndoLast(t.Context(), "admin")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if result.Action != auditlog.ActionRemove {
		t.Fatalf("expected undone action remove, got %s", result.Action)
	}

	seasonRec, _ := f.seasonRecord(t, "spring-2026", "alice")
	if seasonRec.Points != 10 || seasonRec.First != 1 {
		t.Fatalf("expected placement restored, got points=%d first=%d", seasonRec.Points, seasonRec.First)
	}
}

func TestUndoLast_DepthOne(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := f.standingsSvc.UndoLast(t.Context(), "admin"); err != nil {
		t.Fatalf("first undo: %v", err)
	}

	// The undo entry itself is not a valid undo target.
	_, err := f.standingsSvc.UndoLast(t.Context(), "admin")
	if !errors.Is(err, ErrNoActionToUndo) {
		t.Fatalf("expected ErrNoActionToUndo, got %v", err)
	}
}

func TestUndoLast_MalformedEntryAppliesNothing(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	// An add entry with no participant or rank cannot be replayed in reverse.
	if _, err := f.auditLog.Append(t.Context(), auditlog.Entry{
		Action:    auditlog.ActionAdd,
		EventName: "major-berlin",
		Actor:     "admin",
	}); err != nil {
		t.Fatalf("append malformed entry: %v", err)
	}

	_, err := f.standingsSvc.UndoLast(t.Context(), "admin")
	if !errors.Is(err, ErrMalformedLogEntry) {
		t.Fatalf("expected ErrMalformedLogEntry, got %v", err)
	}

	// Nothing was applied: the placement and its records are untouched and the
	// malformed entry stays on top for inspection.
	placements, err := f.standings.ListPlacements(t.Context(), "major-berlin")
	if err != nil || len(placements) != 1 {
		t.Fatalf("expected placement untouched: n=%d err=%v", len(placements), err)
	}
	seasonRec, ok := f.seasonRecord(t, "spring-2026", "alice")
	if !ok || seasonRec.Points != 10 || seasonRec.First != 1 {
		t.Fatalf("expected score record untouched, got ok=%v %+v", ok, seasonRec)
	}
	latest, ok, err := f.auditLog.Latest(t.Context())
	if err != nil || !ok {
		t.Fatalf("latest log entry: ok=%v err=%v", ok, err)
	}
	if latest.Action != auditlog.ActionAdd || latest.ParticipantKey != "" {
		t.Fatalf("expected malformed entry still on top of the log, got %+v", latest)
	}
}

func TestUndoLast_EmptyLog(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	_, err := f.standingsSvc.UndoLast(t.Context(), "admin")
	if !errors.Is(err, ErrNoActionToUndo) {
		t.Fatalf("expected ErrNoActionToUndo, got %v", err)
	}
}

func TestPurgeEvent_RebuildsAffectedRecords(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	for _, in := range []PlacementInput{
		{EventName: "major-berlin", Name: "Alice", Rank: 1},
		{EventName: "major-berlin", Name: "Bob", Rank: 2},
		{EventName: "minor-oslo", Name: "Alice", Rank: 3},
	} {
		if _, err := f.standingsSvc.RecordPlacement(t.Context(), in); err != nil {
			t.Fatalf("record %s/%s: %v", in.EventName, in.Name, err)
		}
	}

	if err := f.standingsSvc.PurgeEvent(t.Context(), "major-berlin", "admin"); err != nil {
		t.Fatalf("purge: %v", err)
	}

	if _, _, err := f.standingsSvc.EventStandings(t.Context(), "major-berlin"); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected purged event gone, got %v", err)
	}

	seasonRec, ok := f.seasonRecord(t, "spring-2026", "alice")
	if !ok {
		t.Fatal("expected alice record to survive via minor-oslo")
	}
	if seasonRec.Points != 4 || seasonRec.Third != 1 || seasonRec.First != 0 {
		t.Fatalf("expected rebuilt record from remaining placements, got points=%d first=%d third=%d",
			seasonRec.Points, seasonRec.First, seasonRec.Third)
	}
	if _, ok := f.seasonRecord(t, "spring-2026", "bob"); ok {
		t.Fatal("expected bob record deleted once his only placement is purged")
	}
}

func TestMarkEventFinished_Idempotent(t *testing.T) {
	f := newLeagueFixture(t).withCurrentSeason(t, "spring-2026")

	if _, err := f.standingsSvc.RecordPlacement(t.Context(), PlacementInput{
		EventName: "major-berlin", Name: "Alice", Rank: 1,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := f.standingsSvc.MarkEventFinished(t.Context(), "major-berlin"); err != nil {
			t.Fatalf("mark finished attempt %d: %v", i+1, err)
		}
	}

	event, _, err := f.standingsSvc.EventStandings(t.Context(), "major-berlin")
	if err != nil {
		t.Fatalf("event standings: %v", err)
	}
	if !event.Finished {
		t.Fatal("expected event marked finished")
	}
}

func TestRecentLog_NewestFirst(t *testing.T) {
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

	entries, err := f.standingsSvc.RecentLog(t.Context(), 0)
	if err != nil {
		t.Fatalf("recent log: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ParticipantKey != "bob" || entries[1].ParticipantKey != "alice" {
		t.Fatalf("expected newest first, got %s then %s", entries[0].ParticipantKey, entries[1].ParticipantKey)
	}
	if entries[0].Seq <= entries[1].Seq {
		t.Fatalf("seq must be strictly increasing, got %d then %d", entries[1].Seq, entries[0].Seq)
	}
}
