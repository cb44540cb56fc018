package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"renewals-authorization/models"
	"renewals-authorization/repository"
)

// SeedService loads cart and order fixtures into the document store
type SeedService struct {
	store  repository.DocumentStoreInterface
	logger *zap.Logger
}

// NewSeedService creates a new SeedService
func NewSeedService(store repository.DocumentStoreInterface, logger *zap.Logger) *SeedService {
	return &SeedService{
		store:  store,
		logger: logger,
	}
}

// LoadSeedFile reads a YAML (or JSON) fixture file.
// The document is decoded generically and re-encoded as JSON so fixtures use
// the same field names as the stored documents.
func LoadSeedFile(path string) (*models.SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes fixture content
func ParseSeed(data []byte) (*models.SeedFile, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert seed file: %w", err)
	}

	var seed models.SeedFile
	if err := json.Unmarshal(encoded, &seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &seed, nil
}

// Seed writes every cart and order of the fixture file to the store.
// It stops at the first failure and reports how many documents were written.
func (s *SeedService) Seed(ctx context.Context, seed *models.SeedFile) (carts int, orders int, err error) {
	s.logger.Info("🌱 Seed: loading fixtures", zap.Int("carts", len(seed.Carts)), zap.Int("orders", len(seed.Orders)))

	for i := range seed.Carts {
		if _, err := s.store.CreateCart(ctx, &seed.Carts[i]); err != nil {
			return carts, orders, fmt.Errorf("failed to seed cart %q: %w", seed.Carts[i].ID, err)
		}
		carts++
	}

	for i := range seed.Orders {
		if _, err := s.store.CreateOrder(ctx, &seed.Orders[i]); err != nil {
			return carts, orders, fmt.Errorf("failed to seed order %q: %w", seed.Orders[i].OrderNumber, err)
		}
		orders++
	}

	s.logger.Info("✅ Seed: fixtures loaded", zap.Int("carts", carts), zap.Int("orders", orders))
	return carts, orders, nil
}
