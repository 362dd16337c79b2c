package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"consistency-tracker/internal/model"
)

const defaultDSN = "consistency_tracker.db"

// connection parameters understood by the mattn sqlite driver
var sqliteParams = []struct{ key, value string }{
	{"_foreign_keys", "on"},
	{"_busy_timeout", "5000"},
}

// NewDB opens the tracker database and brings the schema up to date.
// Foreign keys are enforced so deleting a user cascades to everything it owns.
func NewDB(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = defaultDSN
	}
	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(withPragmas(dsn)), &gorm.Config{
		Logger:         newGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite allows one writer; a single connection serializes log upserts
	// instead of failing them with SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	models := []any{
		&model.User{},
		&model.Session{},
		&model.Task{},
		&model.TimeBlock{},
		&model.DailyLog{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func newGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "[db] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// ensureDirForSQLite creates the directory holding a file database.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

// withPragmas appends the connection parameters the tracker relies on,
// leaving any the caller already set untouched.
func withPragmas(dsn string) string {
	var extra []string
	for _, p := range sqliteParams {
		if strings.Contains(dsn, p.key+"=") {
			continue
		}
		if p.key == "_foreign_keys" && strings.Contains(dsn, "_fk=") {
			continue
		}
		extra = append(extra, p.key+"="+p.value)
	}
	if len(extra) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(extra, "&")
}
