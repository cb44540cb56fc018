package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"renewals-authorization/config"
)

// Open opens and pings a document store connection for the given driver.
// driver is config.DriverPostgres (pgx) or config.DriverSQLite (modernc).
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	sqlDriver, err := sqlDriverName(driver)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	conn, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == config.DriverSQLite {
		// sqlite allows a single writer
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

func sqlDriverName(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return "pgx", nil
	case config.DriverSQLite:
		return "sqlite", nil
	}
	return "", fmt.Errorf("unsupported store driver %q", driver)
}

// Rebind rewrites '?' placeholders into the positional form the driver expects.
// Postgres uses $1, $2, ...; sqlite accepts '?' unchanged.
// Placeholders inside single-quoted literals are left alone.
func Rebind(driver, query string) string {
	if driver != config.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			inLiteral = !inLiteral
			b.WriteByte(ch)
		case ch == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
