package postgres

import (
	"database/sql"
	"time"
)

// nullTime stores the zero time as NULL so column defaults apply
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// nullTimePtr stores a nil pointer as NULL
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
