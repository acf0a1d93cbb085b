package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tierwatt/tierwatt/pkg/types"
)

// Memory is an in-process Database. It is used when no storage provider is
// configured, in which case it is empty.
type Memory struct {
	mu      sync.Mutex
	tariffs map[string]types.Tariff
}

var _ Database = (*Memory)(nil)

// NewMemory creates a Memory database holding the given tariffs.
func NewMemory(tariffs ...types.Tariff) *Memory {
	m := &Memory{tariffs: make(map[string]types.Tariff, len(tariffs))}
	for _, t := range tariffs {
		m.tariffs[t.ID] = t
	}
	return m
}

func (m *Memory) ListTariffs(ctx context.Context) ([]types.Tariff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Tariff, 0, len(m.tariffs))
	for _, t := range m.tariffs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) GetTariff(ctx context.Context, id string) (types.Tariff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tariffs[id]
	if !ok {
		return types.Tariff{}, fmt.Errorf("%w: %s", ErrTariffNotFound, id)
	}
	return t, nil
}

func (m *Memory) PutTariff(ctx context.Context, tariff types.Tariff) error {
	if tariff.ID == "" {
		return fmt.Errorf("tariff id cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tariffs[tariff.ID] = tariff
	return nil
}

func (m *Memory) Close() error {
	return nil
}
