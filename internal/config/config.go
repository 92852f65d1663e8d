// Package config loads runtime configuration from YAML.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 2333
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBName     = "habaru"
	defaultDBCharset  = "utf8mb4"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultS3Region   = "us-east-1"
	defaultUploadMB   = 50
	defaultRotateMB   = 10
	defaultRotateKeep = 5
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	JWTSecret      string         `yaml:"jwt_secret"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Database       DatabaseConfig `yaml:"database"`
	Redis          RedisConfig    `yaml:"redis"`
	S3             S3Config       `yaml:"s3"`
	Uploads        UploadsConfig  `yaml:"uploads"`
	Logs           LogsConfig     `yaml:"logs"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// S3Config covers any S3-compatible store. A custom domain, when set,
// replaces the endpoint in public file URLs.
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
}

type UploadsConfig struct {
	MaxSizeMB           int      `yaml:"max_size_mb"`
	AllowedImageFormats []string `yaml:"allowed_image_formats"`
}

type LogsConfig struct {
	Dir          string `yaml:"dir"`
	RotateSizeMB int    `yaml:"rotate_size_mb"`
	RotateKeep   int    `yaml:"rotate_keep"`
}

// Load reads and validates the YAML config at path. A missing file yields
// the defaults, so a dev instance starts with zero configuration.
func Load(path string) (*AppConfig, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *AppConfig {
	return &AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Host:    defaultDBHost,
			Port:    defaultDBPort,
			User:    defaultDBUser,
			Name:    defaultDBName,
			Charset: defaultDBCharset,
		},
		Redis: RedisConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
		},
		S3: S3Config{
			Region: defaultS3Region,
		},
		Uploads: UploadsConfig{
			MaxSizeMB:           defaultUploadMB,
			AllowedImageFormats: []string{"jpg", "jpeg", "png", "webp", "gif"},
		},
		Logs: LogsConfig{
			Dir:          "logs",
			RotateSizeMB: defaultRotateMB,
			RotateKeep:   defaultRotateKeep,
		},
	}
}

func (c *AppConfig) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("invalid env: %q", c.Env)
	}
	if c.Uploads.MaxSizeMB <= 0 {
		c.Uploads.MaxSizeMB = defaultUploadMB
	}
	return nil
}

// IsDev reports whether the instance runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// Addr is the listen address for the HTTP server.
func (c *AppConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// DSNValue builds the MySQL DSN, preferring an explicit dsn value.
func (d DatabaseConfig) DSNValue() string {
	if strings.TrimSpace(d.DSN) != "" {
		return d.DSN
	}
	charset := d.Charset
	if charset == "" {
		charset = defaultDBCharset
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name, charset)
}

// URLValue builds the redis URL, preferring an explicit url value.
func (r RedisConfig) URLValue() string {
	if strings.TrimSpace(r.URL) != "" {
		return r.URL
	}
	u := url.URL{
		Scheme: "redis",
		Host:   fmt.Sprintf("%s:%d", r.Host, r.Port),
		Path:   fmt.Sprintf("/%d", r.DB),
	}
	if r.Password != "" {
		u.User = url.UserPassword("", r.Password)
	}
	return u.String()
}

// Configured reports whether object storage credentials are present.
func (s S3Config) Configured() bool {
	return s.Endpoint != "" && s.Bucket != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}
