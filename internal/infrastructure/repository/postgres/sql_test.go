package postgres

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches any unique violation", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "bookings_one_confirmed_per_user"}
		if !isUniqueViolation(err, "") {
			t.Fatalf("expected true for 23505")
		}
	})

	t.Run("matches named constraint through wrapping", func(t *testing.T) {
		err := fmt.Errorf("insert booking: %w", &pq.Error{Code: "23505", Constraint: "bookings_one_confirmed_per_user"})
		if !isUniqueViolation(err, "bookings_one_confirmed_per_user") {
			t.Fatalf("expected true for wrapped named constraint")
		}
	})

	t.Run("ignores other constraints", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "sports_pkey"}
		if isUniqueViolation(err, "bookings_one_confirmed_per_user") {
			t.Fatalf("expected false for other constraint")
		}
	})

	t.Run("ignores other codes", func(t *testing.T) {
		err := &pq.Error{Code: "23503"}
		if isUniqueViolation(err, "") {
			t.Fatalf("expected false for foreign key violation")
		}
	})
}
