package corpusstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestGormDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestNewRepositories(t *testing.T) {
	db := newTestGormDB(t)

	t.Run("Postgres", func(t *testing.T) {
		repos := NewRepositories(db, "postgres")
		require.NotNil(t, repos)
		assert.NotNil(t, repos.Trees)
		assert.NotNil(t, repos.JoinRuns)
	})

	t.Run("SQLite", func(t *testing.T) {
		repos := NewRepositories(db, "sqlite")
		require.NotNil(t, repos)
		assert.NotNil(t, repos.Trees)
	})
}

func TestRepositories_AutoMigrate(t *testing.T) {
	db := newTestGormDB(t)
	repos := NewRepositories(db, "sqlite")

	err := repos.AutoMigrate()
	assert.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&Tree{}))
	assert.True(t, db.Migrator().HasTable(&JoinRun{}))
	assert.True(t, db.Migrator().HasTable(&JoinResultRow{}))
}

func TestRepositories_Close(t *testing.T) {
	db := newTestGormDB(t)
	repos := NewRepositories(db, "sqlite")

	err := repos.Close()
	assert.NoError(t, err)
}

func TestRepositories_DB(t *testing.T) {
	db := newTestGormDB(t)
	repos := NewRepositories(db, "sqlite")

	sqlDB := repos.DB()
	assert.NotNil(t, sqlDB)
}

func TestRepositories_GormDB(t *testing.T) {
	db := newTestGormDB(t)
	repos := NewRepositories(db, "sqlite")

	gormDB := repos.GormDB()
	assert.Equal(t, db, gormDB)
}

func TestDBConfig_Validation(t *testing.T) {
	t.Run("ValidPostgresConfig", func(t *testing.T) {
		cfg := &DBConfig{
			Type:     "postgres",
			Host:     "localhost",
			Port:     5432,
			Database: "testdb",
			User:     "testuser",
			Password: "testpass",
			MaxConns: 10,
		}
		assert.Equal(t, "postgres", cfg.Type)
		assert.Equal(t, 5432, cfg.Port)
	})

	t.Run("ValidSQLiteConfig", func(t *testing.T) {
		cfg := &DBConfig{
			Type:     "sqlite",
			Database: "corpus.db",
		}
		assert.Equal(t, "sqlite", cfg.Type)
	})
}
