package utils

import (
	"database/sql"
	"errors"
)

// IsSQLNoRowsError reports whether err means the query matched nothing.
func IsSQLNoRowsError(err error) bool {
	return err != nil && (errors.Is(err, sql.ErrNoRows) || err.Error() == "sql: no rows in result set")
}
