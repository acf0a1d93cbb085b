package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tierwatt/tierwatt/pkg/storage"
	"github.com/tierwatt/tierwatt/pkg/types"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) ListTariffs(ctx context.Context) ([]types.Tariff, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Tariff), args.Error(1)
}

func (m *MockDatabase) GetTariff(ctx context.Context, id string) (types.Tariff, error) {
	args := m.Called(ctx, id)
	if len(args) > 0 {
		return args.Get(0).(types.Tariff), args.Error(1)
	}
	return types.Tariff{}, nil
}

func (m *MockDatabase) PutTariff(ctx context.Context, tariff types.Tariff) error {
	args := m.Called(ctx, tariff)
	return args.Error(0)
}

func (m *MockDatabase) Close() error {
	return nil
}
