package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"
)

// Geocoding providers
const (
	GeocoderNominatim = "nominatim"
	GeocoderMapbox    = "mapbox"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Geocoding GeocodingConfig
	MinIO     MinIOConfig
	NATS      NATSConfig
	Auth      AuthConfig
	Worker    WorkerConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins string
}

type StorageConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

type CacheConfig struct {
	GeocodeCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type GeocodingConfig struct {
	Provider       string
	BaseURL        string
	UserAgent      string
	AccessToken    string
	RequestTimeout time.Duration
	// SkipUnchanged - не геокодировать при обновлении, если адрес не изменился
	// и сохранённая геометрия не заглушка
	SkipUnchanged bool
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type NATSConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxRetries    int
	BatchSize     int
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "wanderlust")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("MONGO_URI", "mongodb://127.0.0.1:27017")
	v.SetDefault("MONGO_DATABASE", "wanderlust")
	v.SetDefault("MONGO_TIMEOUT", 10)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5)

	v.SetDefault("GEOCODE_CACHE_TTL", 86400)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("GEOCODER_PROVIDER", GeocoderNominatim)
	v.SetDefault("GEOCODER_USER_AGENT", "listing-service/1.0")
	v.SetDefault("GEOCODER_TIMEOUT_MS", 5000)

	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_BUCKET", "listings")

	v.SetDefault("WORKER_CONSUMER_GROUP", "listing-geocode-workers")
	v.SetDefault("WORKER_MAX_RETRIES", 3)
	v.SetDefault("WORKER_BATCH_SIZE", 20)

	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_NAMESPACE", "listing")
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// .env опционален: переменные окружения - основной источник
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGO_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:        v.GetString("REDIS_HOST"),
			Port:        v.GetInt("REDIS_PORT"),
			Password:    v.GetString("REDIS_PASSWORD"),
			DB:          v.GetInt("REDIS_DB"),
			PoolSize:    v.GetInt("REDIS_POOL_SIZE"),
			DialTimeout: time.Duration(v.GetInt("REDIS_DIAL_TIMEOUT")) * time.Second,
		},
		Cache: CacheConfig{
			GeocodeCacheTTL: time.Duration(v.GetInt("GEOCODE_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Geocoding: GeocodingConfig{
			Provider:       strings.ToLower(v.GetString("GEOCODER_PROVIDER")),
			BaseURL:        v.GetString("GEOCODER_BASE_URL"),
			UserAgent:      v.GetString("GEOCODER_USER_AGENT"),
			AccessToken:    v.GetString("GEOCODER_ACCESS_TOKEN"),
			RequestTimeout: time.Duration(v.GetInt("GEOCODER_TIMEOUT_MS")) * time.Millisecond,
			SkipUnchanged:  v.GetBool("GEOCODE_SKIP_UNCHANGED"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		NATS: NATSConfig{
			URL: v.GetString("NATS_URL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			MaxRetries:    v.GetInt("WORKER_MAX_RETRIES"),
			BatchSize:     v.GetInt("WORKER_BATCH_SIZE"),
		},
		Metrics: MetricsConfig{
			Enabled:   v.GetBool("METRICS_ENABLED"),
			Namespace: v.GetString("METRICS_NAMESPACE"),
		},
	}

	if cfg.Geocoding.BaseURL == "" {
		switch cfg.Geocoding.Provider {
		case GeocoderMapbox:
			cfg.Geocoding.BaseURL = "https://api.mapbox.com"
		default:
			cfg.Geocoding.BaseURL = "https://nominatim.openstreetmap.org"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMongo:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Geocoding.Provider {
	case GeocoderNominatim:
	case GeocoderMapbox:
		if c.Geocoding.AccessToken == "" {
			return fmt.Errorf("GEOCODER_ACCESS_TOKEN is required for the mapbox provider")
		}
	default:
		return fmt.Errorf("unsupported GEOCODER_PROVIDER %q", c.Geocoding.Provider)
	}

	if c.Geocoding.RequestTimeout <= 0 {
		return fmt.Errorf("GEOCODER_TIMEOUT_MS must be positive")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN - строка подключения для драйвера pgx
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
