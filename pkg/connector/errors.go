package connector

import (
	"errors"
	"slices"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/snowflakedb/gosnowflake"
)

// SQLState returns the SQLSTATE code carried by a driver error, or ""
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) {
		return sfErr.SQLState
	}
	return ""
}

// IsSQLStateError reports whether err carries one of sqlStates
func IsSQLStateError(err error, sqlStates ...string) bool {
	state := SQLState(err)
	return state != "" && slices.Contains(sqlStates, state)
}

// IsConnectionError reports whether the server dropped or refused the session
func IsConnectionError(err error) bool {
	if pgerrcode.IsConnectionException(SQLState(err)) {
		return true
	}
	return IsSQLStateError(err, pgerrcode.AdminShutdown, pgerrcode.CrashShutdown, pgerrcode.CannotConnectNow)
}

// IsDataError reports whether the database rejected a value: a data
// exception (class 22) or an integrity constraint violation (class 23)
func IsDataError(err error) bool {
	state := SQLState(err)
	return pgerrcode.IsDataException(state) || pgerrcode.IsIntegrityConstraintViolation(state)
}
