package scoring

import "testing"

func TestCurrentTablePoints(t *testing.T) {
	table := CurrentTable()

	expected := map[int]int{1: 10, 2: 6, 3: 4, 4: 3, 5: 2, 6: 1}
	for rank, points := range expected {
		if got := table.PointsFor(rank); got != points {
			t.Fatalf("rank %d: expected %d points, got %d", rank, points, got)
		}
	}
	if got := table.MaxRewardedRank(); got != 6 {
		t.Fatalf("expected max rewarded rank 6, got %d", got)
	}
}

func TestLegacyTablePoints(t *testing.T) {
	table := LegacyTable()

	expected := map[int]int{1: 3, 2: 2, 3: 1}
	for rank, points := range expected {
		if got := table.PointsFor(rank); got != points {
			t.Fatalf("rank %d: expected %d points, got %d", rank, points, got)
		}
	}
	if got := table.MaxRewardedRank(); got != 3 {
		t.Fatalf("expected max rewarded rank 3, got %d", got)
	}
}

func TestPointsForUnrewardedRank(t *testing.T) {
	table := CurrentTable()

	for _, rank := range []int{7, 20, 100} {
		if got := table.PointsFor(rank); got != 0 {
			t.Fatalf("rank %d: expected 0 points, got %d", rank, got)
		}
	}
}

func TestParseVersion(t *testing.T) {
	if _, err := ParseVersion("monthly"); err == nil {
		t.Fatal("expected error for unknown version")
	}

	table, err := ParseVersion("LEGACY")
	if err != nil {
		t.Fatalf("parse legacy: %v", err)
	}
	if table.PointsFor(1) != 3 {
		t.Fatalf("expected legacy table, got %v", table)
	}

	table, err = ParseVersion("")
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if table.PointsFor(1) != 10 {
		t.Fatalf("expected current table for empty version, got %v", table)
	}
}
