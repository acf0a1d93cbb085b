package tariff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/levenlabs/go-lflag"
	"github.com/tierwatt/tierwatt/pkg/log"
	"github.com/tierwatt/tierwatt/pkg/types"
)

var ErrUnknownTariff = errors.New("unknown tariff")

// Source supplies additional tariffs, typically from storage.
type Source interface {
	ListTariffs(ctx context.Context) ([]types.Tariff, error)
}

// Configured sets up the tariff Map based on flags. Tariffs from src are
// loaded once flags are parsed; src may be nil.
func Configured(src Source) *Map {
	m := NewMap()
	defaultID := lflag.String("default-tariff", CanonicalID, "ID of the tariff used when a request does not name one")
	var tiers []types.Tier
	lflag.JSON(&tiers, "tier-table", tiers, "JSON list of {upperBound, rate} overriding the built-in tariff's tiers (omit upperBound for the last tier)")

	lflag.Do(func() {
		canonical := CanonicalTariff()
		if len(tiers) > 0 {
			canonical.Tiers = tiers
		}
		t, err := NewTable(canonical)
		if err != nil {
			panic(fmt.Sprintf("tier-table validation failed: %v", err))
		}
		m.Set(t)

		if src != nil {
			if err := m.Load(context.Background(), src); err != nil {
				panic(fmt.Sprintf("failed to load tariffs: %v", err))
			}
		}
		if err := m.SetDefault(*defaultID); err != nil {
			panic(fmt.Sprintf("default-tariff: %v", err))
		}
	})

	return m
}

// Map manages the tariffs known to the process. It is populated at startup and
// only read afterwards.
type Map struct {
	mu        sync.RWMutex
	defaultID string
	tables    map[string]*Table
}

// NewMap creates a Map containing only the canonical tariff.
func NewMap() *Map {
	c := Canonical()
	return &Map{
		defaultID: c.ID(),
		tables:    map[string]*Table{c.ID(): c},
	}
}

// Load validates and adds every tariff from the source. A tariff with the
// same ID as an existing one replaces it.
func (m *Map) Load(ctx context.Context, src Source) error {
	tariffs, err := src.ListTariffs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tariffs: %w", err)
	}
	for _, tt := range tariffs {
		t, err := NewTable(tt)
		if err != nil {
			return err
		}
		m.Set(t)
		log.Ctx(ctx).DebugContext(ctx, "loaded tariff", slog.String("id", t.ID()), slog.Int("tiers", len(tt.Tiers)))
	}
	return nil
}

// Set adds or replaces a table.
func (m *Map) Set(t *Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.ID()] = t
}

// SetDefault sets the table returned for an empty ID.
func (m *Map) SetDefault(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTariff, id)
	}
	m.defaultID = id
	return nil
}

// Table returns the table for the given ID, or the default table if id is empty.
func (m *Map) Table(id string) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id == "" {
		id = m.defaultID
	}
	if t, ok := m.tables[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTariff, id)
}

// List returns metadata for every table sorted by ID.
func (m *Map) List() []types.TariffInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.TariffInfo, 0, len(m.tables))
	for id, t := range m.tables {
		out = append(out, types.TariffInfo{
			ID:        id,
			Name:      t.Name(),
			Currency:  t.Currency(),
			TierCount: len(t.tiers),
			Default:   id == m.defaultID,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
