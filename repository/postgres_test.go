package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"renewals-authorization/config"
	"renewals-authorization/db"
	"renewals-authorization/models"
)

func TestQueries_PostgresPlaceholders(t *testing.T) {
	want := `SELECT id, order_number, customer_first_name, customer_last_name, customer_email, total, status, created_at
FROM documents
WHERE doc_type = $1
  AND (LOWER(order_number) LIKE $2 ESCAPE '\'
    OR LOWER(customer_first_name) LIKE $3 ESCAPE '\'
    OR LOWER(customer_last_name) LIKE $4 ESCAPE '\'
    OR LOWER(customer_email) LIKE $5 ESCAPE '\')
ORDER BY created_at DESC
LIMIT $6`
	assert.Equal(t, want, db.Rebind(config.DriverPostgres, searchOrdersSQL))

	assert.Equal(t, `SELECT body FROM documents WHERE doc_type = $1 AND id = $2`,
		db.Rebind(config.DriverPostgres, getDocumentSQL))
	assert.Contains(t, db.Rebind(config.DriverPostgres, insertOrderSQL),
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)")
	assert.Contains(t, db.Rebind(config.DriverPostgres, insertCartSQL),
		"VALUES ($1, $2, $3, $4, $5)")

	// sqlite keeps '?' placeholders
	assert.Equal(t, searchOrdersSQL, db.Rebind(config.DriverSQLite, searchOrdersSQL))
}

// TestPostgresRoundTrip runs against a live database when TEST_DATABASE_URL is set
func TestPostgresRoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := db.Open(ctx, config.DriverPostgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn, config.DriverPostgres))

	repo := NewDocumentRepository(conn, config.DriverPostgres, zaptest.NewLogger(t))

	// unique ids keep runs against a shared database apart
	suffix := uuid.NewString()[:8]
	cartID := "cart-" + suffix
	orderNumber := "PGT_" + suffix
	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(),
			db.Rebind(config.DriverPostgres, `DELETE FROM documents WHERE id = ? OR order_number = ?`), cartID, orderNumber)
	})

	_, err = repo.CreateCart(ctx, &models.CartData{
		ID:     cartID,
		Items:  []map[string]interface{}{{"sku": "PLAN-PRO"}},
		Totals: models.CartTotals{Subtotal: 100.25, Tax: 8.02, Total: 108.27},
	})
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, 100.25, cart.Totals.Subtotal)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "PLAN-PRO", cart.Items[0]["sku"])

	_, err = repo.CreateOrder(ctx, &models.OrderDocument{
		OrderNumber: orderNumber,
		Customer:    &models.Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Pricing:     models.RenewalTotals{Subtotal: 100.25, Tax: 8.02, Total: 108.27},
		Status:      models.StatusPending,
	})
	require.NoError(t, err)

	// the underscore must match literally
	orders, err := repo.SearchOrders(ctx, "pgt_"+suffix, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, orderNumber, orders[0].OrderNumber)
	assert.Equal(t, "Ada Lovelace", orders[0].CustomerName)
	assert.Equal(t, 108.27, orders[0].Total)

	orders, err = repo.SearchOrders(ctx, "pgtx"+suffix, 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
