package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is one stored key for the postgres driver
type Entry struct {
	Namespace string    `gorm:"primaryKey;size:64"`
	Key       string    `gorm:"primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (Entry) TableName() string {
	return "storage_entries"
}

// Postgres stores entries in a shared postgres database, keyed by namespace so
// several storefront profiles can share one server.
type Postgres struct {
	db        *gorm.DB
	namespace string
}

// NewPostgres connects to postgres and migrates the storage table
func NewPostgres(cfg *config.Config, logger *logrus.Logger) (*Postgres, error) {
	logLevel := gormlogger.Silent
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	store, err := NewPostgresWithDB(db, cfg.Storage.Namespace)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.WithField("host", cfg.Database.Host).Info("Postgres storage connection established")
	return store, nil
}

// NewPostgresWithDB wraps an open gorm handle and runs the auto-migration
func NewPostgresWithDB(db *gorm.DB, namespace string) (*Postgres, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate model %T: %w", &Entry{}, err)
	}
	return &Postgres{db: db, namespace: namespace}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var entry Entry
	err := p.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", p.namespace, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres get %s: %w", key, err)
	}
	return entry.Value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	entry := Entry{Namespace: p.namespace, Key: key, Value: value}
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := p.db.WithContext(ctx).
		Where("namespace = ? AND key IN ?", p.namespace, keys).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("postgres delete: %w", err)
	}
	return nil
}

// Health pings the database
func (p *Postgres) Health(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
