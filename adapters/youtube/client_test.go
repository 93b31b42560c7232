package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PRATIKUGALE02/youtube-proxy/domain/channel"
	"github.com/PRATIKUGALE02/youtube-proxy/domain/stats"
)

func testChannel() channel.Channel {
	return channel.Channel{Name: "Example", ID: "UC123", APIKey: "test-key"}
}

func TestChannelStats_HappyPath(t *testing.T) {
	var gotPath, gotID, gotKey, gotPart string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotID = r.URL.Query().Get("id")
		gotKey = r.URL.Query().Get("key")
		gotPart = r.URL.Query().Get("part")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"statistics":{"subscriberCount":"1000","viewCount":"50000","videoCount":"25"}}]}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	got, err := c.ChannelStats(context.Background(), testChannel())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotPath != "/channels" {
		t.Errorf("expected path /channels, got %s", gotPath)
	}
	if gotID != "UC123" || gotKey != "test-key" {
		t.Errorf("expected id/key query params, got id=%s key=%s", gotID, gotKey)
	}
	if gotPart != "snippet,statistics" {
		t.Errorf("expected part=snippet,statistics, got %s", gotPart)
	}
	if got.Name != "Example" || got.Subscribers != "1000" || got.Views != "50000" || got.Videos != "25" {
		t.Errorf("unexpected stats: %+v", got)
	}
}

func TestChannelStats_EmptyItemsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	got, err := c.ChannelStats(context.Background(), testChannel())
	if err != nil {
		t.Fatalf("expected no error for empty items, got %v", err)
	}
	if got.Subscribers != stats.NotAvailable || got.Views != stats.NotAvailable || got.Videos != stats.NotAvailable {
		t.Errorf("expected N/A sentinels, got %+v", got)
	}
}

func TestChannelStats_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := c.ChannelStats(context.Background(), testChannel()); err == nil {
		t.Errorf("expected error for 403 response")
	}
}

func TestChannelStats_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed before use: connection refused.

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := c.ChannelStats(context.Background(), testChannel()); err == nil {
		t.Errorf("expected transport error against closed server")
	}
}

func TestChannelStats_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := c.ChannelStats(ctx, testChannel()); err == nil {
		t.Errorf("expected error when context deadline is exceeded")
	}
}
