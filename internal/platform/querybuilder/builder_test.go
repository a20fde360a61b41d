package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("name", "season").
		From("events").
		Where(Eq("season", "spring-2026"), EqFold("name", "Major-Berlin")).
		OrderBy("name").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT name, season FROM events WHERE season = $1 AND LOWER(name) = LOWER($2) ORDER BY name LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "spring-2026" || args[1] != "Major-Berlin" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InCondition(t *testing.T) {
	query, args, err := Select("participant_key").
		From("score_records").
		Where(In("participant_key", []any{"alice", "bob"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT participant_key FROM score_records WHERE participant_key IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("participant_key").
		From("score_records").
		Where(In("participant_key", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT participant_key FROM score_records WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("placements").
		Where(Eq("event_name", "major-berlin"), Eq("rank", 2)).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM placements WHERE event_name = $1 AND rank = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("seasons").
		Columns("name", "created_by").
		Values("spring-2026", "admin").
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO seasons (name, created_by) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "spring-2026" || args[1] != "admin" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		Name   string `db:"name"`
		Season string `db:"season"`
		Hidden string `db:"-"`
	}

	query, args, err := InsertModel("events", row{Name: "major-berlin", Season: "spring-2026", Hidden: "x"}, "")
	if err != nil {
		t.Fatalf("build insert from model: %v", err)
	}

	wantQuery := "INSERT INTO events (name, season) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "major-berlin" || args[1] != "spring-2026" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
