package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"crime-insights-go/internal/logger"
	"crime-insights-go/internal/types"
)

type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to the configured database, retrying the first ping with
// exponential backoff, and migrates the schema.
func Open(ctx context.Context, driver, dsn string, log *logger.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// a second connection to :memory: would see an empty database
		sqlDB.SetMaxOpenConns(1)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	attempt := 0
	op := func() error {
		attempt++
		if err := sqlDB.PingContext(ctx); err != nil {
			log.WithError(err).WithField("attempt", attempt).Warn("database ping failed")
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	s := New(db)
	if err := s.Migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	log.WithField("driver", driver).Info("database ready")
	return s, nil
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&types.Incident{}, &types.PredictionLog{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *GormStore) ListIncidents(ctx context.Context) ([]types.Incident, error) {
	var out []types.Incident
	err := s.db.WithContext(ctx).
		Order("incident_date DESC").
		Order("incident_time DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return out, nil
}

func (s *GormStore) CountIncidents(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&types.Incident{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count incidents: %w", err)
	}
	return n, nil
}

func (s *GormStore) InsertIncident(ctx context.Context, in *types.Incident) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(in).Error; err != nil {
		return fmt.Errorf("insert incident %s: %w", in.IncidentID, err)
	}
	return nil
}

func (s *GormStore) InsertIncidents(ctx context.Context, ins []types.Incident) error {
	if len(ins) == 0 {
		return nil
	}
	for i := range ins {
		if err := ins[i].Validate(); err != nil {
			return err
		}
		if ins[i].ID == "" {
			ins[i].ID = uuid.NewString()
		}
	}
	if err := s.db.WithContext(ctx).CreateInBatches(ins, 100).Error; err != nil {
		return fmt.Errorf("insert incidents: %w", err)
	}
	return nil
}

func (s *GormStore) ListPredictionLogs(ctx context.Context, limit int) ([]types.PredictionLog, error) {
	var out []types.PredictionLog
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list prediction logs: %w", err)
	}
	return out, nil
}

// InsertPredictionLogs stores the predictions in one transaction. Rows in
// a batch get strictly increasing timestamps so newest-first order stays
// stable.
func (s *GormStore) InsertPredictionLogs(ctx context.Context, preds []types.Prediction) ([]types.PredictionLog, error) {
	if len(preds) == 0 {
		return nil, nil
	}
	base := s.now().UTC()
	logs := make([]types.PredictionLog, len(preds))
	for i, p := range preds {
		logs[i] = types.PredictionLog{
			ID:         uuid.NewString(),
			Prediction: p,
			CreatedAt:  base.Add(time.Duration(i) * time.Microsecond),
		}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(logs, 100).Error
	})
	if err != nil {
		return nil, fmt.Errorf("insert prediction logs: %w", err)
	}
	return logs, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
