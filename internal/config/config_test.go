package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Provider:         "openai",
			OutputMode:       "structured",
			BatchSize:        20,
			RequestDelay:     time.Second,
			MaxRetryAttempts: 0,
		},
		OpenAI: OpenAIConfig{
			Model:   "gpt-4o-mini",
			BaseURL: "https://api.openai.com/v1",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "quantumelodic",
			Username: "user",
		},
		Server: ServerConfig{
			Address: ":8080",
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
			},
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	for _, key := range []string{"OPENAI_API_KEY", "OPENAI_MODEL", "GEMINI_API_KEY", "QUANTUMELODIC_DATABASE_PASSWORD"} {
		t.Setenv(key, "")
	}

	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:          "no config file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "custom generator and storage values",
			configContent: `generator:
  provider: gemini
  output_mode: text
  batch_size: 5
  request_delay: 250ms
  max_retry_attempts: 2
cache:
  directory: custom/cache
storage:
  driver: mysql
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Generator = GeneratorConfig{
					Provider:         "gemini",
					OutputMode:       "text",
					BatchSize:        5,
					RequestDelay:     250 * time.Millisecond,
					MaxRetryAttempts: 2,
				}
				cfg.Cache.Directory = "custom/cache"
				cfg.Storage.Driver = "mysql"
				return cfg
			},
		},
		{
			name: "explicit config file path",
			configContent: `server:
  address: 127.0.0.1:9090
  cors:
    allowed_origins:
      - https://example.com
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Server.Address = "127.0.0.1:9090"
				cfg.Server.CORS.AllowedOrigins = []string{"https://example.com"}
				return cfg
			},
		},
		{
			name:          "api keys from environment variables",
			configContent: "",
			env: map[string]string{
				"OPENAI_API_KEY": "sk-test",
				"OPENAI_MODEL":   "gpt-4o",
				"GEMINI_API_KEY": "gm-test",
			},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.OpenAI.APIKey = "sk-test"
				cfg.OpenAI.Model = "gpt-4o"
				cfg.Gemini.APIKey = "gm-test"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `generator:
  provider: openai
  invalid yaml format here [[[
`,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "batch size out of range",
			configContent: `generator:
  batch_size: 51
`,
			wantErrorContains: []string{"invalid configuration", "batch_size"},
		},
		{
			name: "unknown provider",
			configContent: `generator:
  provider: davinci
`,
			wantErrorContains: []string{"invalid configuration", "provider"},
		},
		{
			name: "unknown storage driver",
			configContent: `storage:
  driver: postgres
`,
			wantErrorContains: []string{"invalid configuration", "driver"},
		},
		{
			name: "markdown template must exist",
			configContent: `templates:
  markdown: does/not/exist.md.tmpl
`,
			wantErrorContains: []string{"templates.markdown must be an existing and readable file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			tempDir := t.TempDir()

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "custom.yml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			} else {
				if tt.configContent != "" {
					require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yml"), []byte(tt.configContent), 0644))
				}
				t.Chdir(tempDir)
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if len(tt.wantErrorContains) > 0 {
				require.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}
