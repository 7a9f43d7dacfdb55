package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Session  SessionConfig  `yaml:"session"`
	Upload   UploadConfig   `yaml:"upload"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port      int    `yaml:"port"`
	Host      string `yaml:"host"`
	StaticDir string `yaml:"static_dir"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// StorageConfig selects and configures the object store for photos and avatars
type StorageConfig struct {
	Driver    string `yaml:"driver"` // s3, minio or memory
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"` // base URL objects are served from
}

// RedisConfig holds the connection used for token revocation.
// An empty Addr keeps revocations in process memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// SessionConfig holds session cookie settings
type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
	Secure     bool   `yaml:"secure"`
}

// UploadConfig limits request sizes for image uploads
type UploadConfig struct {
	MaxPhotoBytes  int64 `yaml:"max_photo_bytes"`
	MaxAvatarBytes int64 `yaml:"max_avatar_bytes"`
}

// CORSConfig lists the origins allowed to call the server
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file, then applies .env and
// INSTAFEED_* environment overrides and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A missing .env file is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("INSTAFEED_DATABASE_HOST", &c.Database.Host)
	setString("INSTAFEED_DATABASE_PASSWORD", &c.Database.Password)
	setString("INSTAFEED_STORAGE_ACCESS_KEY", &c.Storage.AccessKey)
	setString("INSTAFEED_STORAGE_SECRET_KEY", &c.Storage.SecretKey)
	setString("INSTAFEED_REDIS_ADDR", &c.Redis.Addr)
	setString("INSTAFEED_REDIS_PASSWORD", &c.Redis.Password)
	setString("INSTAFEED_JWT_SECRET", &c.JWT.Secret)
	setString("INSTAFEED_LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("INSTAFEED_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid INSTAFEED_PORT: %w", err)
		}
		c.Server.Port = port
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "public"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "s3"
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = 7 * 24 * time.Hour
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "instafeed_session"
	}
	if c.Upload.MaxPhotoBytes == 0 {
		c.Upload.MaxPhotoBytes = 10 << 20
	}
	if c.Upload.MaxAvatarBytes == 0 {
		c.Upload.MaxAvatarBytes = 2 << 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports the first configuration problem that would stop the server
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return errors.New("database.host and database.dbname are required")
	}
	switch c.Storage.Driver {
	case "memory":
	case "s3", "minio":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the %s driver", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
