package scoring

import (
	"fmt"
	"strings"
)

// Table maps a placement rank to the points it earns. Ranks absent from the
// table are worth zero points; they are still valid placements.
type Table map[int]int

const (
	VersionLegacy  = "legacy"
	VersionCurrent = "current"
)

// LegacyTable is the original three-rank payout used before the league moved
// to six rewarded placements.
func LegacyTable() Table {
	return Table{1: 3, 2: 2, 3: 1}
}

// CurrentTable rewards the top six placements.
func CurrentTable() Table {
	return Table{1: 10, 2: 6, 3: 4, 4: 3, 5: 2, 6: 1}
}

// ParseVersion resolves a configured table version name.
func ParseVersion(v string) (Table, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case VersionLegacy:
		return LegacyTable(), nil
	case VersionCurrent, "":
		return CurrentTable(), nil
	default:
		return nil, fmt.Errorf("unknown scoring table version %q: valid values are %s, %s", v, VersionLegacy, VersionCurrent)
	}
}

// PointsFor returns the points earned by a rank. Total over all integers.
func (t Table) PointsFor(rank int) int {
	return t[rank]
}

// MaxRewardedRank is the highest rank that still earns points.
func (t Table) MaxRewardedRank() int {
	max := 0
	for rank := range t {
		if rank > max {
			max = rank
		}
	}
	return max
}
