package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	JWT       JWTConfig       `toml:"jwt"`
	Storage   StorageConfig   `toml:"storage"`
	Parking   ParkingConfig   `toml:"parking"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	CORS      CORSConfig      `toml:"cors"`
	Logger    LoggerConfig    `toml:"logger"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Host         string        `toml:"host"`
	Port         string        `toml:"port"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	IdleTimeout  time.Duration `toml:"idle_timeout"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string        `toml:"host"`
	Port            string        `toml:"port"`
	User            string        `toml:"user"`
	Password        string        `toml:"password"`
	Database        string        `toml:"name"`
	SSLMode         string        `toml:"sslmode"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	AutoMigrate     bool          `toml:"auto_migrate"`
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// JWTConfig содержит настройки JWT аутентификации
type JWTConfig struct {
	SecretKey     string        `toml:"secret"`
	AccessExpiry  time.Duration `toml:"access_expiry"`
	RefreshExpiry time.Duration `toml:"refresh_expiry"`
}

// StorageConfig содержит настройки объектного хранилища (Firebase Storage)
type StorageConfig struct {
	BaseURL string        `toml:"base_url"`
	Bucket  string        `toml:"bucket"`
	Token   string        `toml:"token"`
	Timeout time.Duration `toml:"timeout"`
}

// ParkingConfig содержит настройки предметной области
type ParkingConfig struct {
	// PublicURL - адрес веб-приложения, он кодируется в QR-код карточки
	PublicURL string `toml:"public_url"`
	// TimeZone используется для дневной статистики
	TimeZone string `toml:"time_zone"`
}

// RateLimitConfig - ограничение частоты запросов на логин и сканирование
type RateLimitConfig struct {
	Requests int           `toml:"requests"`
	Window   time.Duration `toml:"window"`
}

// CORSConfig содержит настройки CORS
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods"`
	AllowedHeaders []string `toml:"allowed_headers"`
}

// LoggerConfig содержит настройки логирования
type LoggerConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json или console
	Output string `toml:"output"` // stdout или путь к файлу
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "parkir_user",
			Password:        "parkir_password",
			Database:        "parkir_db",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			AutoMigrate:     true,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		JWT: JWTConfig{
			SecretKey:     "your-secret-key-change-this-in-production",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
		Storage: StorageConfig{
			BaseURL: "https://firebasestorage.googleapis.com/v0",
			Timeout: 30 * time.Second,
		},
		Parking: ParkingConfig{
			PublicURL: "http://localhost:5173",
			TimeZone:  "Asia/Jakarta",
		},
		RateLimit: RateLimitConfig{
			Requests: 30,
			Window:   time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем TOML файл из CONFIG_FILE
// (если задан), затем переменные окружения (включая .env)
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile накладывает значения из TOML файла поверх текущих
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getDurationEnv("SERVER_IDLE_TIMEOUT", cfg.Server.IdleTimeout)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("DB_NAME", cfg.Database.Database)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.MaxOpenConns = getIntEnv("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getIntEnv("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.ConnMaxLifetime = getDurationEnv("DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime)
	cfg.Database.AutoMigrate = getBoolEnv("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Redis.Host = getEnv("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = getEnv("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getIntEnv("REDIS_DB", cfg.Redis.DB)

	cfg.JWT.SecretKey = getEnv("JWT_SECRET", cfg.JWT.SecretKey)
	cfg.JWT.AccessExpiry = getDurationEnv("JWT_ACCESS_EXPIRY", cfg.JWT.AccessExpiry)
	cfg.JWT.RefreshExpiry = getDurationEnv("JWT_REFRESH_EXPIRY", cfg.JWT.RefreshExpiry)

	cfg.Storage.BaseURL = getEnv("STORAGE_BASE_URL", cfg.Storage.BaseURL)
	cfg.Storage.Bucket = getEnv("STORAGE_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.Token = getEnv("STORAGE_TOKEN", cfg.Storage.Token)
	cfg.Storage.Timeout = getDurationEnv("STORAGE_TIMEOUT", cfg.Storage.Timeout)

	cfg.Parking.PublicURL = getEnv("PARKING_PUBLIC_URL", cfg.Parking.PublicURL)
	cfg.Parking.TimeZone = getEnv("PARKING_TIME_ZONE", cfg.Parking.TimeZone)

	cfg.RateLimit.Requests = getIntEnv("RATE_LIMIT_REQUESTS", cfg.RateLimit.Requests)
	cfg.RateLimit.Window = getDurationEnv("RATE_LIMIT_WINDOW", cfg.RateLimit.Window)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORS.AllowedOrigins = splitList(origins)
	}

	cfg.Logger.Level = getEnv("LOG_LEVEL", cfg.Logger.Level)
	cfg.Logger.Format = getEnv("LOG_FORMAT", cfg.Logger.Format)
	cfg.Logger.Output = getEnv("LOG_OUTPUT", cfg.Logger.Output)
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is not specified")
	}
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt secret is not specified")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if _, err := time.LoadLocation(c.Parking.TimeZone); err != nil {
		return fmt.Errorf("invalid parking time zone %q: %w", c.Parking.TimeZone, err)
	}
	return nil
}

// Location возвращает часовой пояс кампуса
func (c *ParkingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Address возвращает адрес сервера
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Address возвращает адрес Redis
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
