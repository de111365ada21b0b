package repos

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"equipstore/internal/apperr"
)

// classify maps driver errors onto the API taxonomy: missing rows become
// NotFound and uniqueness violations become Conflict.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.WithKind(apperr.KindNotFound, err, what+" not found")
	}
	if isUniqueViolation(err) {
		return apperr.WithKind(apperr.KindConflict, err, what+" already exists")
	}
	return err
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
