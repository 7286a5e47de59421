// Package service wires the ambient stack (database, object storage,
// configuration, logging) to the join engine, giving the CLI a single
// entry point that imports and loads corpora, builds tree indexes, and
// records join/lookup runs. The CLI runs the drivers itself.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/corpusstore"
	"github.com/treesimjoin/simjoin/internal/costmodel"
	"github.com/treesimjoin/simjoin/internal/join"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/ted"
	"github.com/treesimjoin/simjoin/internal/treeindex"
	"github.com/treesimjoin/simjoin/internal/treestorage"
	"github.com/treesimjoin/simjoin/pkg/config"
	"github.com/treesimjoin/simjoin/pkg/utils"
)

// Service is the main application service: it owns the database
// connection and object storage used by one join/lookup invocation at
// a time (spec.md §5: one invocation owns
// every component exclusively).
type Service struct {
	config  *config.Config
	logger  utils.Logger
	db      *corpusstore.Repositories
	storage treestorage.Storage

	running bool
}

// New creates a new Service instance.
func New(cfg *config.Config, logger utils.Logger) (*Service, error) {
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	return &Service{
		config: cfg,
		logger: logger,
	}, nil
}

// Initialize initializes the database and storage components.
func (s *Service) Initialize(ctx context.Context) error {
	s.logger.Info("Initializing service components...")

	if err := s.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := s.initStorage(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := s.config.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	s.running = true
	s.logger.Info("Service components initialized successfully")
	return nil
}

func (s *Service) initDatabase() error {
	s.logger.Info("Connecting to database (%s)...", s.config.Database.Type)

	dbConfig := &corpusstore.DBConfig{
		Type:     s.config.Database.Type,
		Host:     s.config.Database.Host,
		Port:     s.config.Database.Port,
		Database: s.config.Database.Database,
		User:     s.config.Database.User,
		Password: s.config.Database.Password,
		MaxConns: s.config.Database.MaxConns,
	}

	gormDB, err := corpusstore.NewGormDB(dbConfig)
	if err != nil {
		return err
	}

	s.db = corpusstore.NewRepositories(gormDB, s.config.Database.Type)
	if err := s.db.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	s.logger.Info("Database connection established")

	return nil
}

func (s *Service) initStorage() error {
	s.logger.Info("Initializing storage (%s)...", s.config.Storage.Type)

	store, err := treestorage.NewStorage(&s.config.Storage)
	if err != nil {
		return err
	}

	s.storage = store
	s.logger.Info("Storage initialized")

	return nil
}

// ImportCorpus parses every bracket-notation tree in trees and stores
// it under corpus.
func (s *Service) ImportCorpus(ctx context.Context, corpusName string, trees map[string]string) error {
	for name, bracketText := range trees {
		dict := label.New()
		root, err := bracket.Parse(bracketText)
		if err != nil {
			return fmt.Errorf("parsing tree %q: %w", name, err)
		}
		idx := treeindex.Build(root, dict, treeindex.CapBasic)
		t := &corpusstore.Tree{
			Corpus:     corpusName,
			Name:       name,
			Bracket:    bracketText,
			NodeCount:  idx.Size,
			LabelCount: dict.Size(),
		}
		if err := s.db.Trees.SaveTree(ctx, t); err != nil {
			return fmt.Errorf("saving tree %q: %w", name, err)
		}
	}
	return nil
}

// LoadCorpus retrieves every tree in corpusName and builds its index
// with the given capability set, sharing one label dictionary. The
// returned dictionary lets a caller index an out-of-corpus query tree
// (e.g. a lookup query) into the same label space.
func (s *Service) LoadCorpus(ctx context.Context, corpusName string, caps treeindex.Capability) ([]*treeindex.Index, []*corpusstore.Tree, *label.Dictionary, error) {
	rows, err := s.db.Trees.ListTrees(ctx, corpusName)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listing corpus %q: %w", corpusName, err)
	}

	dict := label.New()
	indexes := make([]*treeindex.Index, len(rows))
	for i, row := range rows {
		root, err := bracket.Parse(row.Bracket)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parsing tree %q: %w", row.Name, err)
		}
		indexes[i] = treeindex.Build(root, dict, caps)
	}
	return indexes, rows, dict, nil
}

// RunResult bundles a completed join/lookup invocation's output and
// counters, ready to persist via corpusstore.
type RunResult struct {
	Pairs      []join.JoinResultElement
	Candidates uint64
	Verified   uint64
}

// RecordRun persists a completed join/lookup invocation and its output
// rows under corpusName.
func (s *Service) RecordRun(ctx context.Context, corpusName, algo, mode string, tau int, result RunResult) (int64, error) {
	run := &corpusstore.JoinRun{
		Corpus:    corpusName,
		Algo:      algo,
		Mode:      mode,
		Tau:       tau,
		StartedAt: time.Now(),
	}
	runID, err := s.db.JoinRuns.CreateRun(ctx, run)
	if err != nil {
		return 0, fmt.Errorf("creating run record: %w", err)
	}

	rows := make([]corpusstore.JoinResultRow, len(result.Pairs))
	for i, p := range result.Pairs {
		rows[i] = corpusstore.JoinResultRow{
			RunID:    runID,
			TreeAID:  int64(p.TreeID1),
			TreeBID:  int64(p.TreeID2),
			Distance: int(p.Distance),
		}
	}
	if len(rows) > 0 {
		if err := s.db.JoinRuns.SaveResults(ctx, runID, rows); err != nil {
			return runID, fmt.Errorf("saving results: %w", err)
		}
	}

	if err := s.db.JoinRuns.FinishRun(ctx, runID, len(result.Pairs), int64(result.Candidates), int64(result.Verified)); err != nil {
		return runID, fmt.Errorf("finishing run: %w", err)
	}
	return runID, nil
}

// DefaultCostModel returns the unit cost model used when a CLI
// invocation doesn't request a weighted one.
func (s *Service) DefaultCostModel() costmodel.Model {
	return costmodel.Unit{}
}

// NewTouzet returns a Touzet kernel using the KRSet variant.
func (s *Service) NewTouzet() *ted.Touzet {
	return ted.NewTouzet(ted.TouzetKRSet)
}

// Stop closes the database connection.
func (s *Service) Stop() error {
	s.logger.Info("Stopping service...")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection: %v", err)
		}
	}

	s.running = false
	s.logger.Info("Service stopped")

	return nil
}

// IsRunning returns whether the service has an active database
// connection.
func (s *Service) IsRunning() bool {
	return s.running
}

// HealthCheck performs a health check on the service.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
	}
	return nil
}
