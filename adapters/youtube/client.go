// Package youtube provides the Data API client used to fetch per-channel
// statistics. Each call consumes one metered unit of the channel's key.
package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PRATIKUGALE02/youtube-proxy/domain/channel"
	"github.com/PRATIKUGALE02/youtube-proxy/domain/stats"
	"github.com/PRATIKUGALE02/youtube-proxy/ports"
)

// DefaultBaseURL is the production Data API v3 endpoint.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// maxBodyBytes caps the upstream response read; a channels.list response
// for a single ID is a few kilobytes.
const maxBodyBytes = 1 << 20

// Config contains configuration for the Data API client.
type Config struct {
	BaseURL string        // Defaults to DefaultBaseURL; tests point it at a local server
	Timeout time.Duration // Per-request timeout (default 15s)
}

// Client fetches channel statistics over HTTP.
type Client struct {
	client  *http.Client
	baseURL *url.URL
}

// New creates a new Data API client.
func New(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}, nil
}

// ChannelStats issues one channels.list request for ch and extracts its
// statistics. Transport errors, non-2xx statuses, and unreadable bodies are
// errors; a well-formed response with no matching item is not (the missing
// counters surface as the N/A sentinel).
func (c *Client) ChannelStats(ctx context.Context, ch channel.Channel) (stats.ChannelStats, error) {
	q := url.Values{}
	q.Set("part", "snippet,statistics")
	q.Set("id", ch.ID)
	q.Set("key", ch.APIKey)

	u := *c.baseURL
	u.Path = u.Path + "/channels"
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return stats.ChannelStats{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return stats.ChannelStats{}, fmt.Errorf("fetch channel %s: %w", ch.DisplayName(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return stats.ChannelStats{}, fmt.Errorf("read response for %s: %w", ch.DisplayName(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return stats.ChannelStats{}, fmt.Errorf("upstream status %d for channel %s", resp.StatusCode, ch.DisplayName())
	}

	return stats.ParseChannelStats(ch.DisplayName(), body), nil
}

var _ ports.StatsSource = (*Client)(nil)
