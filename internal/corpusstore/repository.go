package corpusstore

import "context"

// TreeRepository stores and retrieves corpus trees by name.
type TreeRepository interface {
	// SaveTree inserts or replaces a tree in the given corpus.
	SaveTree(ctx context.Context, t *Tree) error

	// GetTree retrieves a single tree by corpus and name.
	GetTree(ctx context.Context, corpus, name string) (*Tree, error)

	// ListTrees retrieves every tree in a corpus, ordered by id.
	ListTrees(ctx context.Context, corpus string) ([]*Tree, error)

	// DeleteCorpus removes every tree belonging to a corpus.
	DeleteCorpus(ctx context.Context, corpus string) error
}

// JoinRunRepository tracks join/lookup invocations and their output rows.
type JoinRunRepository interface {
	// CreateRun records the start of a join or lookup invocation.
	CreateRun(ctx context.Context, run *JoinRun) (int64, error)

	// FinishRun records the outcome counters and marks a run complete.
	FinishRun(ctx context.Context, runID int64, pairCount int, candidates, verified int64) error

	// SaveResults appends output pairs to a run.
	SaveResults(ctx context.Context, runID int64, pairs []JoinResultRow) error

	// GetResults retrieves every output pair of a run.
	GetResults(ctx context.Context, runID int64) ([]JoinResultRow, error)

	// GetRun retrieves a run by id.
	GetRun(ctx context.Context, runID int64) (*JoinRun, error)
}
