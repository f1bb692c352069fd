package settlement

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockWallet struct {
	mock.Mock
}

func (m *MockWallet) Address() string { return "0x00000000000000000000000000000000000000aa" }
func (m *MockWallet) Network() string { return NetworkSepolia }

func (m *MockWallet) GetBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	args := m.Called(ctx, asset)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWallet) Transfer(ctx context.Context, to string, amount decimal.Decimal, asset string) (*Receipt, error) {
	args := m.Called(ctx, to, amount, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Receipt), args.Error(1)
}
