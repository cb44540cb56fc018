package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewals-authorization/models"
)

// writeConfig points the commands at a fresh sqlite store
func writeConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ENV", "production")

	dir := t.TempDir()
	path := filepath.Join(dir, "renewals.yaml")
	content := fmt.Sprintf("store:\n  driver: sqlite\n  dsn: %s\nlogging:\n  level: error\n", filepath.Join(dir, "renewals.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedAndSearch(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := run(t, "--config", cfgPath, "seed", "testdata/seed.yaml")
	require.NoError(t, err)
	assert.Equal(t, "seeded 1 carts and 2 orders\n", out)

	out, err = run(t, "--config", cfgPath, "search", "ada")
	require.NoError(t, err)
	assert.Equal(t, "order-ada-2024\tWEB-1001\tAda Lovelace (ada@example.com)\t$1,296.00\tpaid\t1/15/2024\n", out)

	out, err = run(t, "--config", cfgPath, "search", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "no orders found\n", out)
}

func TestImportCart(t *testing.T) {
	cfgPath := writeConfig(t)

	_, err := run(t, "--config", cfgPath, "seed", "testdata/seed.yaml")
	require.NoError(t, err)

	out, err := run(t, "--config", cfgPath, "import-cart", "https://shop.example.com/checkout?cart=cart-7f3a9c21")
	require.NoError(t, err)

	var result struct {
		Cart    models.CartData       `json:"cart"`
		Summary models.RenewalSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "cart-7f3a9c21", result.Cart.ID)
	assert.Equal(t, "3a9c21", result.Summary.CartBadge)
	assert.Equal(t, "$1,200.00", result.Summary.Subtotal)
	assert.Equal(t, "$96.00", result.Summary.Tax)
	assert.Equal(t, "$1,296.00", result.Summary.Total)
	assert.True(t, result.Summary.CanSubmit)

	_, err = run(t, "--config", cfgPath, "import-cart", "https://shop.example.com/checkout")
	assert.EqualError(t, err, "Invalid cart URL format")

	_, err = run(t, "--config", cfgPath, "import-cart", "?cart=missing")
	assert.EqualError(t, err, "Cart not found")
}

func TestMigrate(t *testing.T) {
	cfgPath := writeConfig(t)

	_, err := run(t, "--config", cfgPath, "migrate")
	require.NoError(t, err)

	// migrations are idempotent
	_, err = run(t, "--config", cfgPath, "migrate")
	require.NoError(t, err)
}

func TestBadConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "migrate")
	assert.Error(t, err)
}
