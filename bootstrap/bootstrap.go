// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PRATIKUGALE02/youtube-proxy/adapters/clock"
	"github.com/PRATIKUGALE02/youtube-proxy/adapters/file"
	apihttp "github.com/PRATIKUGALE02/youtube-proxy/adapters/http"
	"github.com/PRATIKUGALE02/youtube-proxy/adapters/idgen"
	"github.com/PRATIKUGALE02/youtube-proxy/adapters/memory"
	"github.com/PRATIKUGALE02/youtube-proxy/adapters/metrics"
	"github.com/PRATIKUGALE02/youtube-proxy/adapters/sqlite"
	"github.com/PRATIKUGALE02/youtube-proxy/adapters/youtube"
	"github.com/PRATIKUGALE02/youtube-proxy/app"
	"github.com/PRATIKUGALE02/youtube-proxy/config"
	"github.com/PRATIKUGALE02/youtube-proxy/domain/quota"
	"github.com/PRATIKUGALE02/youtube-proxy/ports"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures application initialization.
type Options struct {
	ConfigPath string
	HotReload  bool // watch config and credentials files for changes
}

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Holder     *config.Holder
	DB         *sqlite.DB // nil when the fetch history database is disabled
	HTTPServer *http.Server
	Metrics    *metrics.Collector
	Stats      *app.StatsService
	Ledger     *app.LedgerService

	logCloser io.Closer
}

// New creates and initializes the application.
func New(opts Options) (*App, error) {
	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	holder, err := config.NewHolder(opts.ConfigPath, bootLogger)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := holder.Get()

	logger, logCloser := setupLogger(cfg.Logging)
	logger.Info().Msg("initializing youtube proxy")

	a := &App{
		Logger:    logger,
		Holder:    holder,
		logCloser: logCloser,
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	fetchLog, err := a.initFetchLog(cfg)
	if err != nil {
		return nil, fmt.Errorf("init fetch history: %w", err)
	}

	ledgerStore := file.NewLedgerStore(cfg.Quota.LedgerPath)
	a.Ledger = app.NewLedgerService(ledgerStore, clock.Real{}, logger, a.Metrics)
	logger.Info().Str("path", cfg.Quota.LedgerPath).Msg("quota ledger configured")

	source, err := youtube.New(youtube.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build upstream client: %w", err)
	}

	a.Stats = app.NewStatsService(app.StatsDeps{
		Source:   source,
		Ledger:   a.Ledger,
		FetchLog: fetchLog,
		Clock:    clock.Real{},
		IDGen:    idgen.UUID{},
		Logger:   logger,
		Metrics:  a.Metrics,
	}, holder.Channels, statsConfig(cfg))

	a.wireReload(opts.HotReload)

	router := apihttp.NewRouter(
		apihttp.NewHandler(a.Stats, logger),
		logger,
		apihttp.RouterConfig{
			Metrics:     a.Metrics,
			MetricsPath: cfg.Metrics.Path,
			Timeout:     cfg.Server.WriteTimeout,
		},
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	a.HTTPServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info().Str("addr", addr).Int("channels", len(holder.Channels())).Msg("http server configured")
	return a, nil
}

func (a *App) initFetchLog(cfg *config.Config) (ports.FetchLogStore, error) {
	if !cfg.Database.Enabled {
		a.Logger.Info().Msg("fetch history database disabled, using in-memory log")
		return memory.NewFetchLog(0), nil
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	a.DB = db
	a.Logger.Info().Str("path", cfg.Database.Path).Msg("fetch history database initialized")
	return sqlite.NewFetchLogStore(db), nil
}

// wireReload connects the config holder to the stats service so policy
// changes apply without restart.
func (a *App) wireReload(watch bool) {
	a.Holder.OnChange(func(cfg *config.Config) {
		a.Stats.UpdateConfig(statsConfig(cfg))
		if a.Metrics != nil {
			a.Metrics.ConfigReloads.Inc()
		}
	})
	a.Holder.OnError(func(error) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
	})

	a.Holder.WatchSignals()
	if watch {
		if err := a.Holder.WatchFiles(); err != nil {
			a.Logger.Warn().Err(err).Msg("file watching unavailable, reload via SIGHUP only")
		}
	}
}

func statsConfig(cfg *config.Config) app.StatsConfig {
	return app.StatsConfig{
		DailyLimit: cfg.Quota.DailyLimit,
		Thresholds: quota.Thresholds{
			Orange: cfg.Quota.Thresholds.Orange,
			Red:    cfg.Quota.Thresholds.Red,
		},
		FetchDelay: cfg.Fetch.Delay,
	}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	if a.Holder != nil {
		a.Holder.Stop()
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")

	if a.logCloser != nil {
		a.logCloser.Close()
	}
	return nil
}

// setupLogger builds the zerolog logger from config. The returned closer
// is non-nil when file logging is enabled.
func setupLogger(cfg config.LoggingConfig) (zerolog.Logger, io.Closer) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var base io.Writer = os.Stdout
	if cfg.Format == "console" {
		base = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	if cfg.File.Path == "" {
		return zerolog.New(base).With().Timestamp().Logger(), nil
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.File.Path,
		MaxSize:    cfg.File.MaxSizeMB,
		MaxBackups: cfg.File.MaxBackups,
		MaxAge:     cfg.File.MaxAgeDays,
		Compress:   cfg.File.Compress,
	}
	out := zerolog.MultiLevelWriter(base, rotated)
	return zerolog.New(out).With().Timestamp().Logger(), rotated
}
