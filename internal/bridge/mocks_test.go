package bridge

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) WriteInput(lines []string) error {
	args := m.Called(lines)
	return args.Error(0)
}

func (m *MockTransport) ReadOutput() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context) (*RunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RunResult), args.Error(1)
}

// engineFunc lets a test stand in for the calculation engine
type engineFunc func(ctx context.Context) (*RunResult, error)

func (f engineFunc) Run(ctx context.Context) (*RunResult, error) {
	return f(ctx)
}
