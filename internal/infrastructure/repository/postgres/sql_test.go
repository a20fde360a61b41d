package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	t.Run("matches no rows", func(t *testing.T) {
		if !isNotFound(sql.ErrNoRows) {
			t.Fatalf("expected true for sql.ErrNoRows")
		}
	})

	t.Run("matches wrapped no rows", func(t *testing.T) {
		err := fmt.Errorf("get score record: %w", sql.ErrNoRows)
		if !isNotFound(err) {
			t.Fatalf("expected true for wrapped sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNotFound(errors.New("pq: relation placements does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})

	t.Run("ignores nil", func(t *testing.T) {
		if isNotFound(nil) {
			t.Fatalf("expected false for nil error")
		}
	})
}
