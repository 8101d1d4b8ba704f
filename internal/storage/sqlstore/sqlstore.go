// Package sqlstore holds the queries shared by the SQLite and PostgreSQL
// stores. Queries are written with ? placeholders and rebound per dialect.
package sqlstore

import (
	"database/sql"
	"strings"
	"time"

	"github.com/julianstephens/autosend/internal/migration"
)

// Base implements the data methods of storage.Provider on a *sql.DB.
type Base struct {
	DB      *sql.DB
	Dialect migration.Dialect
	// Retry wraps every write. Nil runs writes once.
	Retry func(op func() error) error
}

func (b *Base) rebind(query string) string {
	if b.Dialect.Placeholder == nil || b.Dialect.Name == migration.SQLite.Name {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString(b.Dialect.Placeholder(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *Base) write(op func() error) error {
	if b.Retry == nil {
		return op()
	}
	return b.Retry(op)
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
