package mocks

import (
	"context"

	"scaffoldapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockExampleService struct {
	mock.Mock
}

func (m *MockExampleService) FetchExampleData(ctx context.Context) (*model.ExampleData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExampleData), args.Error(1)
}

func (m *MockExampleService) ProcessUserData(ctx context.Context, userID string, data map[string]any) (*model.ProcessResult, error) {
	args := m.Called(ctx, userID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProcessResult), args.Error(1)
}
