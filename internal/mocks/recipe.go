package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-companion/backend/internal/service"
	"github.com/pageza/recipe-companion/backend/internal/types"
)

// MockRecipeGenerator is a mock implementation of the recipe generator
type MockRecipeGenerator struct {
	mock.Mock
}

// GenerateRecipe mocks the GenerateRecipe method
func (m *MockRecipeGenerator) GenerateRecipe(ctx context.Context, instructions string) (*service.Recipe, error) {
	args := m.Called(ctx, instructions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Recipe), args.Error(1)
}

// MockSessionStore is a mock implementation of session.Store
type MockSessionStore struct {
	mock.Mock
}

// Load mocks the Load method
func (m *MockSessionStore) Load(ctx context.Context, id string) (*types.PageState, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PageState), args.Error(1)
}

// Save mocks the Save method
func (m *MockSessionStore) Save(ctx context.Context, id string, state *types.PageState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

// BeginGeneration mocks the BeginGeneration method
func (m *MockSessionStore) BeginGeneration(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// EndGeneration mocks the EndGeneration method
func (m *MockSessionStore) EndGeneration(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}
