package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// CachingClient serves repeated terms from JSON files written after successful generations
type CachingClient struct {
	next    Client
	rootDir string
}

func NewCachingClient(next Client, cacheDirectory string) (*CachingClient, error) {
	if err := os.MkdirAll(cacheDirectory, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", cacheDirectory, err)
	}
	return &CachingClient{
		next:    next,
		rootDir: cacheDirectory,
	}, nil
}

func (cache *CachingClient) filePath(term string) string {
	// Terms may contain separators or spaces
	return filepath.Join(cache.rootDir, url.PathEscape(strings.ToLower(strings.TrimSpace(term)))+".json")
}

func (cache *CachingClient) Describe(ctx context.Context, params DescribeRequest) (Descriptions, error) {
	localFilePath := cache.filePath(params.Term)
	if contents, err := os.ReadFile(localFilePath); err == nil {
		var cached Descriptions
		if err := json.Unmarshal(contents, &cached); err == nil && Validate(cached) == nil {
			slog.Default().Debug("serving descriptions from cache", "term", params.Term, "path", localFilePath)
			return cached, nil
		}
		slog.Default().Warn("ignoring unreadable cache entry", "term", params.Term, "path", localFilePath)
	}

	descriptions, err := cache.next.Describe(ctx, params)
	if err != nil {
		return Descriptions{}, err
	}

	if err := cache.store(localFilePath, descriptions); err != nil {
		// A failed write only costs a future model call
		slog.Default().Warn("failed to cache descriptions", "term", params.Term, "error", err)
	}
	return descriptions, nil
}

func (cache *CachingClient) store(path string, descriptions Descriptions) error {
	contents, err := json.MarshalIndent(descriptions, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent > %w", err)
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}
