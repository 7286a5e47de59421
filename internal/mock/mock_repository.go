package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/treesimjoin/simjoin/internal/corpusstore"
)

// MockTreeRepository is a mock implementation of corpusstore.TreeRepository.
type MockTreeRepository struct {
	mock.Mock
}

var _ corpusstore.TreeRepository = (*MockTreeRepository)(nil)

// SaveTree mocks SaveTree.
func (m *MockTreeRepository) SaveTree(ctx context.Context, t *corpusstore.Tree) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// GetTree mocks GetTree.
func (m *MockTreeRepository) GetTree(ctx context.Context, corpus, name string) (*corpusstore.Tree, error) {
	args := m.Called(ctx, corpus, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*corpusstore.Tree), args.Error(1)
}

// ListTrees mocks ListTrees.
func (m *MockTreeRepository) ListTrees(ctx context.Context, corpus string) ([]*corpusstore.Tree, error) {
	args := m.Called(ctx, corpus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*corpusstore.Tree), args.Error(1)
}

// DeleteCorpus mocks DeleteCorpus.
func (m *MockTreeRepository) DeleteCorpus(ctx context.Context, corpus string) error {
	args := m.Called(ctx, corpus)
	return args.Error(0)
}

// ExpectListTrees sets up an expectation for ListTrees.
func (m *MockTreeRepository) ExpectListTrees(corpus string, trees []*corpusstore.Tree, err error) *mock.Call {
	return m.On("ListTrees", mock.Anything, corpus).Return(trees, err)
}

// ExpectSaveTree sets up an expectation for SaveTree.
func (m *MockTreeRepository) ExpectSaveTree(err error) *mock.Call {
	return m.On("SaveTree", mock.Anything, mock.Anything).Return(err)
}

// MockJoinRunRepository is a mock implementation of corpusstore.JoinRunRepository.
type MockJoinRunRepository struct {
	mock.Mock
}

var _ corpusstore.JoinRunRepository = (*MockJoinRunRepository)(nil)

// CreateRun mocks CreateRun.
func (m *MockJoinRunRepository) CreateRun(ctx context.Context, run *corpusstore.JoinRun) (int64, error) {
	args := m.Called(ctx, run)
	return args.Get(0).(int64), args.Error(1)
}

// FinishRun mocks FinishRun.
func (m *MockJoinRunRepository) FinishRun(ctx context.Context, runID int64, pairCount int, candidates, verified int64) error {
	args := m.Called(ctx, runID, pairCount, candidates, verified)
	return args.Error(0)
}

// SaveResults mocks SaveResults.
func (m *MockJoinRunRepository) SaveResults(ctx context.Context, runID int64, pairs []corpusstore.JoinResultRow) error {
	args := m.Called(ctx, runID, pairs)
	return args.Error(0)
}

// GetResults mocks GetResults.
func (m *MockJoinRunRepository) GetResults(ctx context.Context, runID int64) ([]corpusstore.JoinResultRow, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]corpusstore.JoinResultRow), args.Error(1)
}

// GetRun mocks GetRun.
func (m *MockJoinRunRepository) GetRun(ctx context.Context, runID int64) (*corpusstore.JoinRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*corpusstore.JoinRun), args.Error(1)
}

// ExpectCreateRun sets up an expectation for CreateRun.
func (m *MockJoinRunRepository) ExpectCreateRun(runID int64, err error) *mock.Call {
	return m.On("CreateRun", mock.Anything, mock.Anything).Return(runID, err)
}
