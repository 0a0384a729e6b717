// internal/util/util.go
package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/bookmanager/internal/logger"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
)

// Config is the application configuration. Values come from defaults, then the
// JSON config file, then the environment (including a local .env file).
type Config struct {
	Addr         string `json:"addr" env:"ADDR"`
	NatsURL      string `json:"nats_url" env:"NATS_URL"`
	DatabasePath string `json:"database_path" env:"DATABASE_PATH"`

	AdminName     string `json:"admin_name" env:"ADMIN_NAME"`
	AdminEmail    string `json:"admin_email" env:"ADMIN_EMAIL"`
	AdminPassword string `json:"admin_password" env:"ADMIN_PASSWORD"`

	AllowedOrigins string `json:"allowed_origins" env:"ALLOWED_ORIGINS"` // comma separated

	WSReadLimit           int `json:"ws_read_limit" env:"WS_READ_LIMIT"`
	WSReadTimeoutSeconds  int `json:"ws_read_timeout_seconds" env:"WS_READ_TIMEOUT_SECONDS"`
	WSWriteTimeoutSeconds int `json:"ws_write_timeout_seconds" env:"WS_WRITE_TIMEOUT_SECONDS"`

	Log logger.LogConfig `json:"log"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Addr:                  ":5137",
		NatsURL:               nats.DefaultURL,
		AdminName:             "Administrator",
		AdminEmail:            "admin@bookmanager.local",
		AdminPassword:         "password",
		AllowedOrigins:        "*",
		WSReadLimit:           4096,
		WSReadTimeoutSeconds:  60,
		WSWriteTimeoutSeconds: 10,
		Log:                   logger.DefaultLogConfig(),
	}
}

// Origins splits AllowedOrigins into a trimmed list.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.WSReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WSWriteTimeoutSeconds) * time.Second
}

// Validate reports configuration values the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.WSReadLimit < 0 {
		errs = append(errs, fmt.Errorf("ws_read_limit must not be negative, got %d", c.WSReadLimit))
	}
	if c.WSReadTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("ws_read_timeout_seconds must not be negative, got %d", c.WSReadTimeoutSeconds))
	}
	if c.WSWriteTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("ws_write_timeout_seconds must not be negative, got %d", c.WSWriteTimeoutSeconds))
	}
	return errors.Join(errs...)
}

// LoadConfig loads the configuration from a JSON file and applies environment
// overrides. A missing file is not an error.
func LoadConfig(filePath string) (Config, error) {
	config := DefaultConfig()
	if err := decodeFile(filePath, &config); err != nil {
		return config, err
	}

	_ = godotenv.Load()
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return config, fmt.Errorf("read environment: %w", err)
	}
	return config, config.Validate()
}

func decodeFile(filePath string, config *Config) error {
	if filePath == "" {
		return nil
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}
	return nil
}
