package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/listing-service/internal/config"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// DB - пул соединений к PostgreSQL с расширением PostGIS
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// New открывает пул и проверяет, что PostGIS установлен: без него геометрия объявлений не сохраняется
func New(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	sqlxDB, err := sqlx.ConnectContext(connectCtx, "pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlxDB.SetMaxOpenConns(cfg.MaxConns)
	sqlxDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlxDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	db := &DB{DB: sqlxDB, logger: logger}

	version, err := db.postGISVersion(connectCtx)
	if err != nil {
		_ = sqlxDB.Close()
		return nil, err
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
		zap.String("postgis", version),
		zap.Int("max_conns", cfg.MaxConns),
	)

	return db, nil
}

func (db *DB) postGISVersion(ctx context.Context) (string, error) {
	var version string
	if err := db.GetContext(ctx, &version, `SELECT PostGIS_Lib_Version()`); err != nil {
		return "", fmt.Errorf("postgis extension is not available: %w", err)
	}
	return version, nil
}

func (db *DB) Close() error {
	stats := db.Stats()
	db.logger.Info("Closing PostgreSQL connection",
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int64("wait_count", stats.WaitCount))
	return db.DB.Close()
}

// Health - ping для /api/v1/health
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// NewDBForTest оборачивает уже открытое соединение (testhelpers)
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{DB: sqlxDB, logger: logger}
}
