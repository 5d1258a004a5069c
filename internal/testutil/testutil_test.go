package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelanticoli/quantumelodic/internal/config"
	"github.com/michaelanticoli/quantumelodic/internal/inference"
	"github.com/michaelanticoli/quantumelodic/internal/inference/openai"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)
	assert.Equal(t, filepath.Join(tmpDir, "config.yml"), got)

	info, err := os.Stat(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Zero(t, cfg.Generator.RequestDelay)
	assert.Equal(t, filepath.Join(tmpDir, "cache"), cfg.Cache.Directory)
}

func TestSetupTestConfigWithServer(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	tmpDir := t.TempDir()
	got := SetupTestConfigWithServer(t, tmpDir, "http://127.0.0.1:9999")

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), "base_url: http://127.0.0.1:9999")
	assert.Contains(t, string(content), "api_key: fake-key-for-testing")
}

func TestFakeOpenAIServer(t *testing.T) {
	fake := NewFakeOpenAIServer(t, "broken")
	client := openai.NewClient("key", "gpt-4o-mini", fake.URL, inference.OutputModeStructured, 0)

	got, err := client.Describe(context.Background(), inference.DescribeRequest{Term: "saturn"})
	require.NoError(t, err)
	assert.Equal(t, DescriptionsOf("saturn"), got)

	_, err = client.Describe(context.Background(), inference.DescribeRequest{Term: "broken"})
	assert.ErrorContains(t, err, "response error 500")
	assert.Equal(t, 2, fake.Calls())
}

func TestExtractTerm(t *testing.T) {
	assert.Equal(t, "golden ratio", extractTerm(inference.UserPrompt("golden ratio", inference.OutputModeStructured)))
	assert.Equal(t, "", extractTerm("no term here"))
}
