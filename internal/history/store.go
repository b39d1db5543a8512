package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	pkgerrors "github.com/g2dcsp/solver/pkg/errors"
	"github.com/g2dcsp/solver/pkg/telemetry"
)

// Store records and retrieves RunRecords, backed by sqlite, postgres, or
// mysql depending on Config.History.Driver (spec.md §6.2).
type Store struct {
	db *gorm.DB
}

// Open connects to the history database named by driver/dsn and ensures
// the solver_runs table exists (spec.md §6.2: driver ∈ {sqlite,postgres,mysql}).
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeConfigError, fmt.Sprintf("unsupported history driver: %s", driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeHistoryStoreError, "failed to open history store", err)
	}
	if telemetry.Enabled() {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeHistoryStoreError, "failed to enable history store telemetry", err)
		}
	}
	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeHistoryStoreError, "failed to migrate history store", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record inserts one completed run's summary.
func (s *Store) Record(ctx context.Context, rec *RunRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeHistoryStoreError, "failed to record run", err)
	}
	return nil
}

// List returns the most recent limit runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]RunRecord, error) {
	var recs []RunRecord
	err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeHistoryStoreError, "failed to list runs", err)
	}
	return recs, nil
}

// Get retrieves a single run by id.
func (s *Store) Get(ctx context.Context, id int64) (*RunRecord, error) {
	var rec RunRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeHistoryStoreError, fmt.Sprintf("run %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeHistoryStoreError, "failed to get run", err)
	}
	return &rec, nil
}
