// Package repotest builds throwaway sqlite-backed repositories for tests.
package repotest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"cloudrent/internal/repository"
	"cloudrent/pkg/log"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// NewDB opens a private in-memory database with the schema migrated. A single
// connection serializes transactions the way row locks would on a server database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func NewRepository(t testing.TB) *repository.Repository {
	return repository.NewRepository(viper.New(), log.NewNop(), NewDB(t))
}
