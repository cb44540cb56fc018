package db

import (
	"context"
	"database/sql"
	"fmt"

	"renewals-authorization/config"
)

// documents holds every stored document. body is the full JSON payload;
// the remaining columns are projections used for search and listing.
const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
	id                  TEXT PRIMARY KEY,
	doc_type            TEXT NOT NULL,
	order_number        TEXT NOT NULL DEFAULT '',
	customer_first_name TEXT NOT NULL DEFAULT '',
	customer_last_name  TEXT NOT NULL DEFAULT '',
	customer_email      TEXT NOT NULL DEFAULT '',
	total               %s NOT NULL DEFAULT 0,
	status              TEXT NOT NULL DEFAULT '',
	created_at          BIGINT NOT NULL,
	body                %s NOT NULL
)`

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_documents_type_created ON documents (doc_type, created_at)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_order_number ON documents (doc_type, order_number) WHERE order_number <> ''`,
}

// Migrate creates the document store schema. It is safe to run repeatedly.
func Migrate(ctx context.Context, conn *sql.DB, driver string) error {
	floatType, jsonType := "REAL", "TEXT"
	if driver == config.DriverPostgres {
		floatType, jsonType = "DOUBLE PRECISION", "JSONB"
	}

	statements := append([]string{fmt.Sprintf(createDocumentsTable, floatType, jsonType)}, indexStatements...)
	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
