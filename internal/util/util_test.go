// internal/util/util_test.go
package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	req := require.New(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	req.NoError(err)
	req.Equal(":5137", cfg.Addr)
	req.Equal(4096, cfg.WSReadLimit)
	req.Equal(60*time.Second, cfg.ReadTimeout())
	req.Equal(10*time.Second, cfg.WriteTimeout())
	req.Equal([]string{"*"}, cfg.Origins())
}

func TestLoadConfig_FileThenEnvironment(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, `{
		"addr": ":9000",
		"database_path": "books.db",
		"allowed_origins": "http://localhost:5173, http://example.com",
		"log": {"level": "debug", "log_to_file": false}
	}`)
	t.Setenv("ADDR", ":9100")
	t.Setenv("WS_READ_TIMEOUT_SECONDS", "0")

	cfg, err := LoadConfig(path)
	req.NoError(err)
	req.Equal(":9100", cfg.Addr)
	req.Equal("books.db", cfg.DatabasePath)
	req.Equal(time.Duration(0), cfg.ReadTimeout())
	req.Equal("debug", cfg.Log.Level)
	req.False(cfg.Log.LogToFile)
	req.Equal([]string{"http://localhost:5173", "http://example.com"}, cfg.Origins())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"addr":`)

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "Defaults are valid", mutate: func(*Config) {}},
		{name: "Empty addr", mutate: func(c *Config) { c.Addr = " " }, wantErr: true},
		{name: "Negative read limit", mutate: func(c *Config) { c.WSReadLimit = -1 }, wantErr: true},
		{name: "Negative read timeout", mutate: func(c *Config) { c.WSReadTimeoutSeconds = -5 }, wantErr: true},
		{name: "Negative write timeout", mutate: func(c *Config) { c.WSWriteTimeoutSeconds = -5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if tt.wantErr {
				require.Error(t, cfg.Validate())
			} else {
				require.NoError(t, cfg.Validate())
			}
		})
	}
}
