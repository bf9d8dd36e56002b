package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// isUniqueViolation reports whether err is a postgres unique-constraint
// violation, optionally narrowed to one constraint name.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
