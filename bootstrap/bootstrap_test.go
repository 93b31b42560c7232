package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PRATIKUGALE02/youtube-proxy/config"
)

func writeTestConfig(t *testing.T, port string, dbEnabled bool) string {
	t.Helper()
	dir := t.TempDir()

	credsPath := filepath.Join(dir, "credentials.json")
	creds := `{"channels": [{"name": "One", "channelId": "UC1", "apiKey": "k1"}]}`
	if err := os.WriteFile(credsPath, []byte(creds), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}

	enabled := "false"
	if dbEnabled {
		enabled = "true"
	}

	cfgPath := filepath.Join(dir, "ytproxy.yaml")
	cfg := "server:\n  port: " + port + "\n" +
		"quota:\n  ledger_path: " + filepath.Join(dir, "quota.json") + "\n" +
		"credentials:\n  path: " + credsPath + "\n" +
		"database:\n  enabled: " + enabled + "\n" +
		"  path: " + filepath.Join(dir, "history.db") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func TestNew_MemoryFetchLog(t *testing.T) {
	cfgPath := writeTestConfig(t, "18080", false)

	a, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Shutdown()

	if a.Stats == nil || a.Ledger == nil || a.HTTPServer == nil {
		t.Error("expected services and server wired")
	}
	if a.DB != nil {
		t.Error("expected no database when disabled")
	}
	if a.Metrics != nil {
		t.Error("expected metrics disabled by default")
	}
	if len(a.Holder.Channels()) != 1 {
		t.Errorf("expected 1 channel, got %d", len(a.Holder.Channels()))
	}
}

func TestNew_SqliteFetchLog(t *testing.T) {
	cfgPath := writeTestConfig(t, "18081", true)

	a, err := New(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Shutdown()

	if a.DB == nil {
		t.Error("expected database opened when enabled")
	}
}

func TestNew_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ytproxy.yaml")
	if err := os.WriteFile(cfgPath, []byte("logging:\n  level: loudest\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := New(Options{ConfigPath: cfgPath}); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestSetupLogger(t *testing.T) {
	logger, closer := setupLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	if closer != nil {
		t.Error("expected no closer without file logging")
	}
	logger.Debug().Msg("wired")

	dir := t.TempDir()
	_, closer = setupLogger(config.LoggingConfig{
		Level:  "info",
		Format: "console",
		File:   config.LogFileConfig{Path: filepath.Join(dir, "ytproxy.log")},
	})
	if closer == nil {
		t.Fatal("expected closer for file logging")
	}
	closer.Close()
}
