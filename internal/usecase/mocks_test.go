package usecase

import (
	"context"

	"github.com/september-cli/september/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock implementations shared by the use case tests

type mockRepositoryProvider struct {
	mock.Mock
}

func (m *mockRepositoryProvider) Clone(ctx context.Context, source, path string) error {
	args := m.Called(ctx, source, path)
	return args.Error(0)
}

func (m *mockRepositoryProvider) Pull(ctx context.Context, path, remote string) error {
	args := m.Called(ctx, path, remote)
	return args.Error(0)
}

func (m *mockRepositoryProvider) Update(ctx context.Context, path, revisionID string) error {
	args := m.Called(ctx, path, revisionID)
	return args.Error(0)
}

func (m *mockRepositoryProvider) ListTags(ctx context.Context, path string) ([]domain.Tag, error) {
	args := m.Called(ctx, path)
	if tags := args.Get(0); tags != nil {
		return tags.([]domain.Tag), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCommandRunner struct {
	mock.Mock
}

func (m *mockCommandRunner) Run(ctx context.Context, command, dir string, useShell bool) error {
	args := m.Called(ctx, command, dir, useShell)
	return args.Error(0)
}

type mockCacheRepository struct {
	mock.Mock
}

func (m *mockCacheRepository) Load(path string) (*domain.TagCache, error) {
	args := m.Called(path)
	if cache := args.Get(0); cache != nil {
		return cache.(*domain.TagCache), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCacheRepository) Save(path string, cache *domain.TagCache) error {
	args := m.Called(path, cache)
	return args.Error(0)
}
