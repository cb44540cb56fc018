package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const seedYAML = `
carts:
  - _id: abc123
    items:
      - sku: PLAN-PRO
        quantity: 1
    customer:
      firstName: Ada
      lastName: Lovelace
      email: ada@example.com
    totals:
      subtotal: 100
      discount: 0
      tax: 8
      total: 108
orders:
  - _id: order-1
    _type: order
    _createdAt: "2024-01-15T10:30:00Z"
    orderNumber: A-100
    customer:
      firstName: Ada
      lastName: Lovelace
      email: ada@example.com
    pricing:
      total: 108
    status: paid
`

func TestParseSeed(t *testing.T) {
	seed, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)

	require.Len(t, seed.Carts, 1)
	cart := seed.Carts[0]
	assert.Equal(t, "abc123", cart.ID)
	assert.Equal(t, 100.0, cart.Totals.Subtotal)
	require.NotNil(t, cart.Customer)
	assert.Equal(t, "ada@example.com", cart.Customer.Email)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "PLAN-PRO", cart.Items[0]["sku"])

	require.Len(t, seed.Orders, 1)
	order := seed.Orders[0]
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "A-100", order.OrderNumber)
	assert.Equal(t, "2024-01-15T10:30:00Z", order.CreatedAt)
	assert.Equal(t, 108.0, order.Pricing.Total)
}

func TestParseSeed_Invalid(t *testing.T) {
	_, err := ParseSeed([]byte("carts: [unterminated"))
	assert.Error(t, err)

	_, err = ParseSeed([]byte("carts: 12"))
	assert.Error(t, err)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Len(t, seed.Carts, 1)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	store := newFakeStore()
	seed, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)

	carts, orders, err := NewSeedService(store, zaptest.NewLogger(t)).Seed(context.Background(), seed)
	require.NoError(t, err)
	assert.Equal(t, 1, carts)
	assert.Equal(t, 1, orders)
	assert.Len(t, store.createdCarts, 1)
	assert.Len(t, store.created, 1)
}

func TestSeed_StopsAtFirstFailure(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("disk full")
	seed, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)

	carts, orders, err := NewSeedService(store, zaptest.NewLogger(t)).Seed(context.Background(), seed)
	assert.Error(t, err)
	assert.Equal(t, 1, carts)
	assert.Equal(t, 0, orders)
}
