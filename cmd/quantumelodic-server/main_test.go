package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelanticoli/quantumelodic/internal/testutil"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "config from QUANTUMELODIC_CONFIG",
			setup: func(t *testing.T) string {
				return testutil.SetupTestConfig(t, t.TempDir())
			},
		},
		{
			name: "broken config",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "config.yml")
				require.NoError(t, os.WriteFile(path, []byte("{{invalid yaml content"), 0644))
				return path
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("QUANTUMELODIC_CONFIG", tt.setup(t))

			cfg, err := loadConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "openai", cfg.Generator.Provider)
			assert.Equal(t, "memory", cfg.Storage.Driver)
			assert.Equal(t, ":8080", cfg.Server.Address)
			assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORS.AllowedOrigins)
		})
	}
}

func TestLoadConfig_AllowedOrigins(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte("server:\n  address: 127.0.0.1:9090\n  cors:\n    allowed_origins:\n      - https://example.com\n")...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	t.Setenv("QUANTUMELODIC_CONFIG", cfgPath)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Address)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORS.AllowedOrigins)
}

func startServer(t *testing.T, handler http.Handler) (*http.Server, string) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	httpServer := &http.Server{Handler: handler}
	go func() {
		_ = httpServer.Serve(listener)
	}()
	return httpServer, "http://" + listener.Addr().String()
}

func TestShutdownServer(t *testing.T) {
	t.Run("idle server stops immediately", func(t *testing.T) {
		httpServer, _ := startServer(t, http.NotFoundHandler())

		err := shutdownServer(httpServer, time.Second)(context.Background())
		assert.NoError(t, err)
	})

	t.Run("in-flight request is cut off after the timeout", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		defer close(release)
		var once sync.Once
		httpServer, url := startServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			once.Do(func() { close(started) })
			<-release
		}))

		go func() {
			resp, err := http.Get(url)
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
		<-started

		begin := time.Now()
		err := shutdownServer(httpServer, 50*time.Millisecond)(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(begin), 5*time.Second)
	})
}
