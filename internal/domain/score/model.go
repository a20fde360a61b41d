package score

import "time"

// Scope identifies which aggregate a record belongs to: a season name, or the
// all-time aggregate.
type Scope struct {
	Season string
}

// AllTime is the scope covering every season.
var AllTime = Scope{}

func SeasonScope(season string) Scope {
	return Scope{Season: season}
}

func (s Scope) IsAllTime() bool {
	return s.Season == ""
}

// Key is the storage key for the scope.
func (s Scope) Key() string {
	if s.IsAllTime() {
		return "all-time"
	}
	return "season:" + s.Season
}

// Record is the derived points aggregate for one participant within a scope.
// It is a projection of placements and must never be edited directly.
type Record struct {
	Scope          Scope
	ParticipantKey string
	DisplayName    string
	Points         int
	First          int
	Second         int
	Third          int
	Fourth         int
	Fifth          int
	Sixth          int
	// Events counts competitions entered; tracked for the all-time scope only.
	Events    int
	UpdatedAt time.Time
}

var rankCounters = []func(*Record) *int{
	func(r *Record) *int { return &r.First },
	func(r *Record) *int { return &r.Second },
	func(r *Record) *int { return &r.Third },
	func(r *Record) *int { return &r.Fourth },
	func(r *Record) *int { return &r.Fifth },
	func(r *Record) *int { return &r.Sixth },
}

// CounterFor returns a pointer to the counter tracking the given rank, or nil
// when the rank has no dedicated counter (rank > 6).
func (r *Record) CounterFor(rank int) *int {
	if rank < 1 || rank > len(rankCounters) {
		return nil
	}
	return rankCounters[rank-1](r)
}

// SameTotals reports whether two records agree on points and every counter.
// DisplayName and UpdatedAt are metadata and do not participate.
func (r Record) SameTotals(other Record) bool {
	return r.Points == other.Points && r.First == other.First &&
		r.Second == other.Second && r.Third == other.Third &&
		r.Fourth == other.Fourth && r.Fifth == other.Fifth &&
		r.Sixth == other.Sixth && r.Events == other.Events
}

// IsZero reports whether the record carries no points and no counters.
func (r Record) IsZero() bool {
	return r.Points == 0 && r.First == 0 && r.Second == 0 && r.Third == 0 &&
		r.Fourth == 0 && r.Fifth == 0 && r.Sixth == 0 && r.Events == 0
}
