package corpusstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTreeRepository implements TreeRepository using GORM.
type GormTreeRepository struct {
	db *gorm.DB
}

// NewGormTreeRepository creates a new GormTreeRepository.
func NewGormTreeRepository(db *gorm.DB) *GormTreeRepository {
	return &GormTreeRepository{db: db}
}

// SaveTree implements TreeRepository.
func (r *GormTreeRepository) SaveTree(ctx context.Context, t *Tree) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "corpus"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"bracket", "node_count", "label_count", "metadata"}),
		}).
		Create(t).Error
	if err != nil {
		return fmt.Errorf("failed to save tree %s/%s: %w", t.Corpus, t.Name, err)
	}
	return nil
}

// GetTree implements TreeRepository.
func (r *GormTreeRepository) GetTree(ctx context.Context, corpus, name string) (*Tree, error) {
	var t Tree
	err := r.db.WithContext(ctx).
		Where("corpus = ? AND name = ?", corpus, name).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tree not found: %s/%s", corpus, name)
		}
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}
	return &t, nil
}

// ListTrees implements TreeRepository.
func (r *GormTreeRepository) ListTrees(ctx context.Context, corpus string) ([]*Tree, error) {
	var trees []*Tree
	err := r.db.WithContext(ctx).
		Where("corpus = ?", corpus).
		Order("id ASC").
		Find(&trees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trees for corpus %s: %w", corpus, err)
	}
	return trees, nil
}

// DeleteCorpus implements TreeRepository.
func (r *GormTreeRepository) DeleteCorpus(ctx context.Context, corpus string) error {
	err := r.db.WithContext(ctx).Where("corpus = ?", corpus).Delete(&Tree{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete corpus %s: %w", corpus, err)
	}
	return nil
}

// GormJoinRunRepository implements JoinRunRepository using GORM.
type GormJoinRunRepository struct {
	db *gorm.DB
}

// NewGormJoinRunRepository creates a new GormJoinRunRepository.
func NewGormJoinRunRepository(db *gorm.DB) *GormJoinRunRepository {
	return &GormJoinRunRepository{db: db}
}

// CreateRun implements JoinRunRepository.
func (r *GormJoinRunRepository) CreateRun(ctx context.Context, run *JoinRun) (int64, error) {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return 0, fmt.Errorf("failed to create join run: %w", err)
	}
	return run.ID, nil
}

// FinishRun implements JoinRunRepository.
func (r *GormJoinRunRepository) FinishRun(ctx context.Context, runID int64, pairCount int, candidates, verified int64) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&JoinRun{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"pair_count":  pairCount,
			"candidates":  candidates,
			"verified":    verified,
			"finished_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to finish join run %d: %w", runID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("join run not found: %d", runID)
	}
	return nil
}

// SaveResults implements JoinRunRepository.
func (r *GormJoinRunRepository) SaveResults(ctx context.Context, runID int64, pairs []JoinResultRow) error {
	if len(pairs) == 0 {
		return nil
	}
	for i := range pairs {
		pairs[i].RunID = runID
	}
	if err := r.db.WithContext(ctx).CreateInBatches(pairs, 200).Error; err != nil {
		return fmt.Errorf("failed to save join results for run %d: %w", runID, err)
	}
	return nil
}

// GetResults implements JoinRunRepository.
func (r *GormJoinRunRepository) GetResults(ctx context.Context, runID int64) ([]JoinResultRow, error) {
	var rows []JoinResultRow
	err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get join results for run %d: %w", runID, err)
	}
	return rows, nil
}

// GetRun implements JoinRunRepository.
func (r *GormJoinRunRepository) GetRun(ctx context.Context, runID int64) (*JoinRun, error) {
	var run JoinRun
	err := r.db.WithContext(ctx).Where("id = ?", runID).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("join run not found: %d", runID)
		}
		return nil, fmt.Errorf("failed to get join run: %w", err)
	}
	return &run, nil
}
