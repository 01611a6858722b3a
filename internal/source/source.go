// Package source loads story documents from the render API or from disk.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ZacxDev/story-renderer/internal/story"
)

// Loader reads stories by reference: an http(s) URL or a file path.
type Loader struct {
	client *http.Client
}

func NewLoader(timeout time.Duration) *Loader {
	return &Loader{client: &http.Client{Timeout: timeout}}
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Load fetches and decodes the story.
func (l *Loader) Load(ctx context.Context, ref string) (*story.Story, error) {
	if ref == "" {
		return nil, fmt.Errorf("no story reference given")
	}
	if !isURL(ref) {
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to open story file: %w", err)
		}
		defer f.Close()
		return story.Decode(f)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch story: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("story request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return story.Decode(resp.Body)
}
