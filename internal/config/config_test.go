package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"template": "nih.yaml",
		"out_dir": "out",
		"enhance": true,
		"port": 9090,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "nih.yaml", cfg.Template)
	assert.Equal(t, "out", cfg.OutDir)
	assert.True(t, cfg.Enhance)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "database_url: postgres://localhost/biosketch\nmax_upload_mb: 5\nrate_limit_per_minute: 30\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/biosketch", cfg.DatabaseURL)
	assert.Equal(t, 5, cfg.MaxUploadMB)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "invalid json",
			path:    func(t *testing.T) string { return writeFile(t, "config.json", `{ invalid json }`) },
			wantErr: "failed to parse config JSON",
		},
		{
			name:    "invalid yaml",
			path:    func(t *testing.T) string { return writeFile(t, "config.yml", "port: [1, 2") },
			wantErr: "failed to parse config YAML",
		},
		{
			name:    "missing file",
			path:    func(*testing.T) string { return "/nonexistent/path/config.json" },
			wantErr: "failed to read config file",
		},
		{
			name:    "empty path",
			path:    func(*testing.T) string { return "" },
			wantErr: "config path is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	template := writeFile(t, "template.json", "{}")

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: Defaults()},
		{name: "existing template", cfg: Config{Template: template, OutDir: dir}},
		{name: "missing out dir is created later", cfg: Config{OutDir: filepath.Join(dir, "new")}},
		{name: "port out of range", cfg: Config{Port: 70000}, wantErr: "'port'"},
		{name: "negative upload", cfg: Config{MaxUploadMB: -1}, wantErr: "'max_upload_mb'"},
		{name: "negative rate", cfg: Config{RateLimitPerMinute: -5}, wantErr: "'rate_limit_per_minute'"},
		{name: "enhance without key", cfg: Config{Enhance: true}, wantErr: "requires 'api_key'"},
		{name: "missing template", cfg: Config{Template: filepath.Join(dir, "nope.json")}, wantErr: "template file not found"},
		{name: "out dir is a file", cfg: Config{OutDir: template}, wantErr: "not a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Template: "custom.json", Port: 9000}
	defaults := Config{
		Template:           "default.json",
		OutDir:             "out",
		APIKey:             "key",
		DatabaseURL:        "postgres://db",
		Port:               8080,
		MaxUploadMB:        20,
		RateLimitPerMinute: 10,
		Verbose:            true,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, Config{
		Template:           "custom.json",
		OutDir:             "out",
		APIKey:             "key",
		DatabaseURL:        "postgres://db",
		Port:               9000,
		MaxUploadMB:        20,
		RateLimitPerMinute: 10,
		Verbose:            true,
	}, merged)
	assert.Equal(t, "", cfg.OutDir, "receiver is not modified")
}

func TestEnvDefaults(t *testing.T) {
	env := map[string]string{
		EnvAPIKey:      "secret",
		EnvDatabaseURL: "postgres://env",
		EnvTemplate:    "env.yaml",
	}

	cfg := EnvDefaults(func(key string) string { return env[key] })

	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "env.yaml", cfg.Template)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultMaxUploadMB, cfg.MaxUploadMB)
	assert.Equal(t, DefaultRateLimitPerMinute, cfg.RateLimitPerMinute)
}
