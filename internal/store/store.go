package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/artikelin/api/internal/config"
	"github.com/artikelin/api/internal/model"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("article was modified concurrently")
	ErrDuplicateSlug   = errors.New("article slug already exists")
)

// Store groups the repositories that share one database handle.
type Store struct {
	db       *gorm.DB
	Jobs     *JobRepository
	Articles *ArticleRepository
	Keywords *KeywordRepository
	Settings *SettingRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Jobs:     &JobRepository{db: db},
		Articles: &ArticleRepository{db: db},
		Keywords: &KeywordRepository{db: db},
		Settings: &SettingRepository{db: db},
	}
}

// Transaction runs fn against a Store bound to a single transaction.
// fn must only use the Store it is given.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// SavePoint marks a point inside the current transaction that RollbackTo
// can return to. Only valid on a Store handed out by Transaction.
func (s *Store) SavePoint(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).SavePoint(name).Error
}

func (s *Store) RollbackTo(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).RollbackTo(name).Error
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Open connects to the configured database.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite", "":
		if err := ensureDir(cfg.DSN); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "postgres" {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Keyword{},
		&model.Article{},
		&model.Setting{},
		&model.Job{},
	)
}

func ensureDir(dsn string) error {
	if dsn == "" || strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
