package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		Server    ServerConfig    `yaml:"server"`
		Database  DatabaseConfig  `yaml:"database"`
		JWT       JWTConfig       `yaml:"jwt"`
		Upload    UploadConfig    `yaml:"upload"`
		Logger    LoggerConfig    `yaml:"logger"`
		Metrics   MetricsConfig   `yaml:"metrics"`
		Bootstrap BootstrapConfig `yaml:"bootstrap"`
	}

	ServerConfig struct {
		Addr        string   `yaml:"addr"`
		GinMode     string   `yaml:"gin_mode"`
		APIPrefix   string   `yaml:"api_prefix"`
		CORSOrigins []string `yaml:"cors_origins"`
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // sqlite, mysql, postgres
		Host     string `yaml:"host"`     // ignored for sqlite
		Port     int    `yaml:"port"`     // 3306 (mysql), 5432 (postgres)
		User     string `yaml:"user"`     // ignored for sqlite
		Password string `yaml:"password"` // ignored for sqlite
		DBName   string `yaml:"dbname"`   // file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // postgres only
		LogLevel string `yaml:"log_level"`
	}

	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	UploadConfig struct {
		Dir        string `yaml:"dir"`
		URLPrefix  string `yaml:"url_prefix"`
		MaxSizeMiB int64  `yaml:"max_size_mib"`
	}

	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // used when output is file
		MaxSize    int    `yaml:"max_size"`    // MB
		MaxBackups int    `yaml:"max_backups"` // rotated files kept
		MaxAge     int    `yaml:"max_age"`     // days
		Compress   bool   `yaml:"compress"`
	}

	MetricsConfig struct {
		Enabled   bool   `yaml:"enabled"`
		Path      string `yaml:"path"`
		Namespace string `yaml:"namespace"`
	}

	// BootstrapConfig describes the admin account created by `migrate` when missing.
	BootstrapConfig struct {
		AdminUsername string `yaml:"admin_username"`
		AdminPassword string `yaml:"admin_password"`
		AdminEmail    string `yaml:"admin_email"`
	}
)

var envPlaceholder = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// Load reads .env, then the optional YAML file at path, then fills defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(resolveEnv(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	setDefaults(cfg)
	return cfg, nil
}

// Default returns a configuration populated only from defaults and environment.
func Default() *Config {
	cfg := &Config{}
	applyEnv(cfg)
	setDefaults(cfg)
	return cfg
}

// resolveEnv replaces ${VAR} and ${VAR:default} placeholders in YAML content
func resolveEnv(content []byte) []byte {
	return envPlaceholder.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := envPlaceholder.FindSubmatch(match)
		if value, ok := os.LookupEnv(string(matches[1])); ok {
			return []byte(value)
		}
		if len(matches) > 2 {
			return matches[2]
		}
		return nil
	})
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.GinMode = getEnv("GIN_MODE", cfg.Server.GinMode)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = strings.Split(origins, ",")
	}
	cfg.Database.Type = getEnv("DB_TYPE", cfg.Database.Type)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.JWT.SecretKey = getEnv("JWT_SECRET", cfg.JWT.SecretKey)
	cfg.Upload.Dir = getEnv("UPLOAD_DIR", cfg.Upload.Dir)
	cfg.Logger.Level = getEnv("LOG_LEVEL", cfg.Logger.Level)
	cfg.Bootstrap.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.Bootstrap.AdminPassword)
}

func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.GinMode == "" {
		cfg.Server.GinMode = "debug"
	}
	if cfg.Server.APIPrefix == "" {
		cfg.Server.APIPrefix = "/api"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "./data/repair_management.db"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Port == 0 {
		switch cfg.Database.Type {
		case "mysql":
			cfg.Database.Port = 3306
		case "postgres":
			cfg.Database.Port = 5432
		}
	}
	if cfg.JWT.SecretKey == "" {
		cfg.JWT.SecretKey = "default-secret-key-change-me-please-0000"
	}
	if cfg.JWT.Duration <= 0 {
		cfg.JWT.Duration = 30 * time.Minute
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "./uploads"
	}
	if cfg.Upload.URLPrefix == "" {
		cfg.Upload.URLPrefix = "/uploads"
	}
	if cfg.Upload.MaxSizeMiB <= 0 {
		cfg.Upload.MaxSizeMiB = 50
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "repair"
	}
	if cfg.Bootstrap.AdminUsername == "" {
		cfg.Bootstrap.AdminUsername = "admin"
	}
	if cfg.Bootstrap.AdminEmail == "" {
		cfg.Bootstrap.AdminEmail = "admin@example.com"
	}
}

// DSN returns the driver specific connection string
func (c *DatabaseConfig) DSN() string {
	switch c.Type {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	case "sqlite":
		return c.DBName
	default:
		return ""
	}
}

// EnsureSQLiteDir creates the parent directory of the sqlite database file.
func (c *DatabaseConfig) EnsureSQLiteDir() error {
	if c.Type != "sqlite" || c.DBName == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(c.DBName), 0o755)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
