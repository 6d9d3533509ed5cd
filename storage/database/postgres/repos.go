package pgrepos

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a postgres unique-constraint violation.
// Unique indexes backstop the services' check-then-act sequences: two concurrent
// inserts may both pass the existence check, but only one survives the index.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(errors.Cause(err), &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// trapNoRowsErr maps psql "no rows" to the domain's NotFound error.
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// nullTime maps a zero time to NULL on insert.
func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// prefixColumns qualifies columns with a table alias for joined queries.
func prefixColumns(alias string, columns []string) []string {
	prefixed := make([]string, 0, len(columns))
	for _, col := range columns {
		prefixed = append(prefixed, alias+"."+col)
	}
	return prefixed
}
