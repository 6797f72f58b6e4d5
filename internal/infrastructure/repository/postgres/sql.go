package postgres

import (
	"database/sql"
	"strings"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// PgBouncer in transaction pooling mode drops extended-protocol state between
// transactions: stale plans surface as 08P01 bind mismatches, dropped unnamed
// statements as 26000. Queries matching either get retried in a simpler shape.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") || strings.Contains(msg, "(08P01)")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unnamed prepared statement does not exist") || strings.Contains(msg, "(26000)")
}
