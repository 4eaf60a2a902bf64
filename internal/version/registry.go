package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/birdnet-go/birdnet-mcp/pkg/config"
)

// Release is the relevant slice of a GitHub latest-release payload.
type Release struct {
	TagName string `json:"tag_name"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
}

type tagList struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// RegistryClient talks to the two upstream version sources: the
// container registry's tag list and the releases API.
type RegistryClient struct {
	tagsURL     string
	releasesURL string
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewRegistryClient(cfg config.UpdateConfig, logger *slog.Logger) *RegistryClient {
	return &RegistryClient{
		tagsURL:     cfg.RegistryTagsURL,
		releasesURL: cfg.ReleasesURL,
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		logger:      logger,
	}
}

// ListNightlyTags returns every registry tag carrying an 8-digit build
// date, in the order the registry reported them.
func (c *RegistryClient) ListNightlyTags(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, c.tagsURL)
	if err != nil {
		return nil, err
	}

	var list tagList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("unparseable tag list: %w", err)
	}

	var nightly []string
	for _, tag := range list.Tags {
		if !IsNightly(tag) {
			continue
		}
		if _, ok := NightlyDate(tag); ok {
			nightly = append(nightly, tag)
		}
	}
	return nightly, nil
}

// LatestRelease fetches the newest stable release.
func (c *RegistryClient) LatestRelease(ctx context.Context) (*Release, error) {
	body, err := c.get(ctx, c.releasesURL)
	if err != nil {
		return nil, err
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("unparseable release payload: %w", err)
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("release payload carries no tag")
	}
	return &release, nil
}

func (c *RegistryClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
