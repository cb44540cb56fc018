package repository

import (
	"context"
	"errors"

	"renewals-authorization/models"
)

// ErrNotFound is returned when a point lookup finds no document
var ErrNotFound = errors.New("document not found")

// DocumentStoreInterface defines the contract for document store operations
type DocumentStoreInterface interface {
	// SearchOrders returns up to limit orders whose order number, customer first name,
	// last name or email starts with query (case-insensitive), newest first.
	SearchOrders(ctx context.Context, query string, limit int) ([]models.OrderSummary, error)
	// GetCart looks up a cart by id. Returns ErrNotFound when there is no such cart.
	GetCart(ctx context.Context, id string) (*models.CartData, error)
	// CreateOrder persists a new order and returns it with its assigned id and creation time.
	CreateOrder(ctx context.Context, order *models.OrderDocument) (*models.OrderDocument, error)
	// CreateCart persists a cart snapshot and returns it with its assigned id.
	CreateCart(ctx context.Context, cart *models.CartData) (*models.CartData, error)
}
