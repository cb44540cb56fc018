package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"renewals-authorization/db"
	"renewals-authorization/models"
)

// Queries use '?' placeholders and are rebound per driver.
// LIKE patterns come from escapeLike and use a backslash escape.
const (
	searchOrdersSQL = `SELECT id, order_number, customer_first_name, customer_last_name, customer_email, total, status, created_at
FROM documents
WHERE doc_type = ?
  AND (LOWER(order_number) LIKE ? ESCAPE '\'
    OR LOWER(customer_first_name) LIKE ? ESCAPE '\'
    OR LOWER(customer_last_name) LIKE ? ESCAPE '\'
    OR LOWER(customer_email) LIKE ? ESCAPE '\')
ORDER BY created_at DESC
LIMIT ?`

	getDocumentSQL = `SELECT body FROM documents WHERE doc_type = ? AND id = ?`

	insertOrderSQL = `INSERT INTO documents (id, doc_type, order_number, customer_first_name, customer_last_name, customer_email, total, status, created_at, body)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertCartSQL = `INSERT INTO documents (id, doc_type, total, created_at, body)
VALUES (?, ?, ?, ?, ?)`
)

// DocumentRepository stores orders and carts as JSON documents in a SQL table
type DocumentRepository struct {
	conn   *sql.DB
	driver string
	logger *zap.Logger
	now    func() time.Time
}

// NewDocumentRepository creates a new DocumentRepository.
// driver selects the placeholder dialect (config.DriverPostgres or config.DriverSQLite).
func NewDocumentRepository(conn *sql.DB, driver string, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		conn:   conn,
		driver: driver,
		logger: logger,
		now:    time.Now,
	}
}

// Ensure DocumentRepository implements DocumentStoreInterface
var _ DocumentStoreInterface = (*DocumentRepository)(nil)

// SearchOrders finds orders by prefix over order number and customer fields
func (r *DocumentRepository) SearchOrders(ctx context.Context, query string, limit int) ([]models.OrderSummary, error) {
	r.logger.Debug("SearchOrders: searching orders", zap.String("query", query), zap.Int("limit", limit))

	pattern := escapeLike(strings.ToLower(query)) + "%"
	q := db.Rebind(r.driver, searchOrdersSQL)

	rows, err := r.conn.QueryContext(ctx, q, models.DocTypeOrder, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	defer rows.Close()

	orders := []models.OrderSummary{}
	for rows.Next() {
		var (
			summary             models.OrderSummary
			firstName, lastName string
			createdAt           int64
		)
		if err := rows.Scan(
			&summary.ID,
			&summary.OrderNumber,
			&firstName,
			&lastName,
			&summary.CustomerEmail,
			&summary.Total,
			&summary.Status,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		summary.CustomerName = firstName + " " + lastName
		summary.CreatedAt = formatTimestamp(createdAt)
		orders = append(orders, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	r.logger.Debug("SearchOrders: found orders", zap.Int("count", len(orders)))
	return orders, nil
}

// GetCart loads a cart document by id
func (r *DocumentRepository) GetCart(ctx context.Context, id string) (*models.CartData, error) {
	q := db.Rebind(r.driver, getDocumentSQL)

	var body string
	err := r.conn.QueryRowContext(ctx, q, models.DocTypeCart, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	var cart models.CartData
	if err := json.Unmarshal([]byte(body), &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", id, err)
	}
	cart.ID = id
	if cart.Items == nil {
		cart.Items = []map[string]interface{}{}
	}

	return &cart, nil
}

// CreateOrder inserts a new order document. The store assigns the id when it is empty
// and the creation time when CreatedAt is empty.
func (r *DocumentRepository) CreateOrder(ctx context.Context, order *models.OrderDocument) (*models.OrderDocument, error) {
	created := *order
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	created.Type = models.DocTypeOrder

	createdAt, err := r.creationTime(created.CreatedAt)
	if err != nil {
		return nil, err
	}
	created.CreatedAt = formatTimestamp(createdAt)
	if created.Items == nil {
		created.Items = []map[string]interface{}{}
	}

	body, err := json.Marshal(&created)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}

	var firstName, lastName, email string
	if created.Customer != nil {
		firstName = created.Customer.FirstName
		lastName = created.Customer.LastName
		email = created.Customer.Email
	}

	q := db.Rebind(r.driver, insertOrderSQL)
	_, err = r.conn.ExecContext(ctx, q,
		created.ID,
		models.DocTypeOrder,
		created.OrderNumber,
		firstName,
		lastName,
		email,
		created.Pricing.Total,
		created.Status,
		createdAt,
		string(body),
	)
	if err != nil {
		r.logger.Error("CreateOrder: insert failed", zap.String("orderNumber", created.OrderNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Info("CreateOrder: created order", zap.String("id", created.ID), zap.String("orderNumber", created.OrderNumber))
	return &created, nil
}

// CreateCart inserts a cart snapshot document
func (r *DocumentRepository) CreateCart(ctx context.Context, cart *models.CartData) (*models.CartData, error) {
	created := *cart
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Items == nil {
		created.Items = []map[string]interface{}{}
	}

	body, err := json.Marshal(&created)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}

	q := db.Rebind(r.driver, insertCartSQL)
	_, err = r.conn.ExecContext(ctx, q, created.ID, models.DocTypeCart, created.Totals.Total, r.now().UnixMilli(), string(body))
	if err != nil {
		r.logger.Error("CreateCart: insert failed", zap.String("id", created.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Info("CreateCart: created cart", zap.String("id", created.ID))
	return &created, nil
}

// creationTime returns the millisecond timestamp for a new document,
// honoring an explicit RFC 3339 value (used by fixtures).
func (r *DocumentRepository) creationTime(explicit string) (int64, error) {
	if explicit == "" {
		return r.now().UnixMilli(), nil
	}
	t, err := time.Parse(time.RFC3339, explicit)
	if err != nil {
		return 0, fmt.Errorf("invalid _createdAt %q: %w", explicit, err)
	}
	return t.UnixMilli(), nil
}

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
}

// escapeLike escapes LIKE wildcards so user input only matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
