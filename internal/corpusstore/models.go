// Package corpusstore provides GORM-backed persistence for tree corpora and
// join results. It sits entirely outside the join engine: every join/lookup
// call in internal/join only ever touches in-memory components, the same way
// the bracket-notation file and CLI harness are the original's outer
// boundary. corpusstore just feeds bracket strings in and writes result rows
// back out.
package corpusstore

import (
	"database/sql/driver"
	"errors"
	"time"
)

// Tree represents a single corpus tree, stored as its bracket-notation text
// plus the summary counts a CLI listing wants without re-parsing the tree.
type Tree struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Corpus     string    `gorm:"column:corpus;type:varchar(128);uniqueIndex:idx_corpus_name"`
	Name       string    `gorm:"column:name;type:varchar(256);uniqueIndex:idx_corpus_name"`
	Bracket    string    `gorm:"column:bracket;type:text"`
	NodeCount  int       `gorm:"column:node_count"`
	LabelCount int       `gorm:"column:label_count"`
	Metadata   JSONField `gorm:"column:metadata;type:json"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for Tree.
func (Tree) TableName() string {
	return "trees"
}

// JoinRun records one invocation of a join or lookup driver.
type JoinRun struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Corpus     string     `gorm:"column:corpus;type:varchar(128);index"`
	Algo       string     `gorm:"column:algo;type:varchar(32)"`
	Mode       string     `gorm:"column:mode;type:varchar(16)"` // "join" or "lookup"
	Tau        int        `gorm:"column:tau"`
	PairCount  int        `gorm:"column:pair_count"`
	Candidates int64      `gorm:"column:candidates"`
	Verified   int64      `gorm:"column:verified"`
	StartedAt  time.Time  `gorm:"column:started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
}

// TableName returns the table name for JoinRun.
func (JoinRun) TableName() string {
	return "join_runs"
}

// JoinResultRow is one output pair of a completed JoinRun.
type JoinResultRow struct {
	ID       int64 `gorm:"column:id;primaryKey;autoIncrement"`
	RunID    int64 `gorm:"column:run_id;index"`
	TreeAID  int64 `gorm:"column:tree_a_id"`
	TreeBID  int64 `gorm:"column:tree_b_id"`
	Distance int   `gorm:"column:distance"`
}

// TableName returns the table name for JoinResultRow.
func (JoinResultRow) TableName() string {
	return "join_result_rows"
}

// JSONField is a custom type for storing arbitrary JSON alongside a GORM row.
type JSONField []byte

// Value implements driver.Valuer.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}

// MarshalJSON implements json.Marshaler.
func (j JSONField) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSONField) UnmarshalJSON(data []byte) error {
	if data == nil || string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}
