package orchestrator

import (
	"context"

	"github.com/september-cli/september/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock implementations shared by the orchestrator tests

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

type mockRunLock struct {
	mock.Mock
}

func (m *mockRunLock) Acquire(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockRunLock) AcquireShared(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockRunLock) Release() error {
	args := m.Called()
	return args.Error(0)
}
