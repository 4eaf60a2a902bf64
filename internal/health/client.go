package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/birdnet-go/birdnet-mcp/internal/shared"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
)

const (
	healthPath   = "/api/v2/health"
	checkTimeout = 5 * time.Second
	quickTimeout = 2 * time.Second
)

// Client queries the managed application's health endpoint. A missing,
// empty or unparseable response is "no health data" (a nil status, not
// an error) so callers can tell "not running" apart from "running but
// unhealthy".
type Client struct {
	baseURL string
	logger  *slog.Logger
}

func NewClient(instance config.InstanceConfig, logger *slog.Logger) *Client {
	return NewClientWithBaseURL(fmt.Sprintf("http://%s:%d", instance.HealthHost, instance.HealthPort), logger)
}

// NewClientWithBaseURL builds a client against an explicit base URL.
func NewClientWithBaseURL(baseURL string, logger *slog.Logger) *Client {
	return &Client{baseURL: baseURL, logger: logger}
}

// Check fetches the full health payload with the standard timeout.
func (c *Client) Check(ctx context.Context) *shared.HealthStatus {
	return c.fetch(ctx, checkTimeout)
}

// QuickCheck is the short-timeout variant used inside status probes.
func (c *Client) QuickCheck(ctx context.Context) *shared.HealthStatus {
	return c.fetch(ctx, quickTimeout)
}

func (c *Client) fetch(ctx context.Context, timeout time.Duration) *shared.HealthStatus {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		c.logger.Debug("Failed to build health request", "error", err)
		return nil
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.logger.Debug("Health endpoint unreachable", "error", err)
		return nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(body) == 0 {
		return nil
	}

	// A degraded instance may answer with a non-2xx code but still carry
	// a usable payload, so the status code is not checked here.
	var status shared.HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		c.logger.Debug("Unparseable health payload", "error", err)
		return nil
	}
	if status.Status == "" {
		return nil
	}

	return &status
}
