package storage

import (
	"context"
	"errors"

	"github.com/tierwatt/tierwatt/pkg/types"
)

var ErrTariffNotFound = errors.New("tariff not found")

// Database defines the interface for reading and seeding tariff tables.
// Tariffs are read once at startup; nothing is written while serving.
type Database interface {
	// ListTariffs returns every stored tariff ordered by ID.
	ListTariffs(ctx context.Context) ([]types.Tariff, error)
	// GetTariff returns ErrTariffNotFound if there is no tariff with the ID.
	GetTariff(ctx context.Context, id string) (types.Tariff, error)
	// PutTariff adds or replaces a tariff.
	PutTariff(ctx context.Context, tariff types.Tariff) error

	// Lifecycle
	Close() error
}
