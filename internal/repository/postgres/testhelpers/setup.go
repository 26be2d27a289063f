package testhelpers

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/listing-service/internal/config"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB initializes a test database connection.
// Тест пропускается, если PostGIS недоступен.
func SetupTestDB(t *testing.T) *TestDB {
	if testing.Short() {
		t.Skip("skipping PostGIS integration tests in short mode")
	}

	port, err := strconv.Atoi(getEnv("TEST_DB_PORT", "5433"))
	if err != nil {
		t.Fatalf("invalid TEST_DB_PORT: %v", err)
	}

	connStr := (&config.DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		DBName:   getEnv("TEST_DB_NAME", "listing_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	}).DSN()

	// Retry connection with exponential backoff to wait for DB recovery
	var db *sqlx.DB
	maxRetries := 3
	retryDelay := 250 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			t.Logf("Database not ready (attempt %d/%d), waiting %v...", i+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}

	if err != nil {
		t.Skipf("Test database not available after %d attempts: %v", maxRetries, err)
	}

	var version string
	if err := db.Get(&version, "SELECT PostGIS_Version()"); err != nil {
		db.Close()
		t.Skipf("PostGIS not available: %v", err)
	}
	t.Logf("PostGIS version: %s", version)

	return &TestDB{
		DB:     db,
		Logger: zap.NewNop(),
	}
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// Cleanup очищает таблицы сервиса
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	tables := []string{"reviews", "listings", "users"}

	for _, table := range tables {
		if _, err := tdb.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
			// Ignore errors if table doesn't exist
			continue
		}
	}

	return nil
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
