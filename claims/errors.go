package claims

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrSchemaMismatch means the claims store lacks a table or column the
	// join query depends on.
	ErrSchemaMismatch = errors.New("claims store schema mismatch")
	// ErrMalformedRow means a fetched row has no value in a key column.
	ErrMalformedRow = errors.New("malformed claim line")
)

// PostgreSQL SQLSTATE codes for missing relations/columns.
const (
	sqlStateUndefinedTable  = "42P01"
	sqlStateUndefinedColumn = "42703"
)

// MalformedRowError identifies the offending line.
type MalformedRowError struct {
	EncounterKey string
	LineNumber   int32
	Column       string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("encounter %q line %d: missing %s", e.EncounterKey, e.LineNumber, e.Column)
}

func (e *MalformedRowError) Unwrap() error { return ErrMalformedRow }

// classify maps schema-related server errors onto ErrSchemaMismatch and
// leaves everything else (connectivity, syntax) untouched.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUndefinedTable, sqlStateUndefinedColumn:
			return fmt.Errorf("%w: %s", ErrSchemaMismatch, pgErr.Message)
		}
	}
	return err
}
