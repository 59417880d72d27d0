package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faas-platform/internal/core/executor"
	"faas-platform/internal/core/functions"
)

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) Create(ctx context.Context, in functions.CreateInput) (*functions.Function, error) {
	args := m.Called(ctx, in)
	if fn := args.Get(0); fn != nil {
		return fn.(*functions.Function), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistry) Get(ctx context.Context, id string) (*functions.Function, error) {
	args := m.Called(ctx, id)
	if fn := args.Get(0); fn != nil {
		return fn.(*functions.Function), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistry) List(ctx context.Context, offset, limit int) ([]functions.Function, error) {
	args := m.Called(ctx, offset, limit)
	if list := args.Get(0); list != nil {
		return list.([]functions.Function), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistry) Update(ctx context.Context, id string, in functions.CreateInput) (*functions.Function, error) {
	args := m.Called(ctx, id, in)
	if fn := args.Get(0); fn != nil {
		return fn.(*functions.Function), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistry) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, fn executor.FunctionSpec, tech executor.Technology) (*executor.ExecutionResult, error) {
	args := m.Called(ctx, fn, tech)
	if res := args.Get(0); res != nil {
		return res.(*executor.ExecutionResult), args.Error(1)
	}
	return nil, args.Error(1)
}
