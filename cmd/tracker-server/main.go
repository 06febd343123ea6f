// Serves the peer tracker to browsers over websockets.
//
// Example run:
// $ go run ./cmd/tracker-server --addr :8080 --geoip-file ranges.csv --debug
package main

import (
	"context"
	"errors"
	"fmt"
	stdLog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/anacrolix/envpprof"
	"github.com/anacrolix/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/upflare/tracker"
	"github.com/upflare/tracker/geo"
	"github.com/upflare/tracker/internal/statspub"
	"github.com/upflare/tracker/iplist"
	"github.com/upflare/tracker/version"
	"github.com/upflare/tracker/wstracker"
)

func main() {
	defer envpprof.Stop()
	if err := mainErr(); err != nil {
		log.Printf("error in main: %v", err)
		os.Exit(1)
	}
}

func mainErr() error {
	stdLog.SetFlags(stdLog.Flags() | stdLog.Lshortfile)
	var flags Flags
	arg.MustParse(&flags)
	cfg, err := flags.config()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg)
}

func newLogger(cfg Config) log.Logger {
	if cfg.Debug {
		return log.Default
	}
	return log.Default.FilterLevel(log.Info)
}

func loadLocator(cfg Config, logger log.Logger) (geo.Locator, error) {
	if cfg.GeoIPFile == "" {
		logger.WithDefaultLevel(log.Warning).Printf("no geoip file, peers will only be matched by subnet")
		return geo.NoLocator, nil
	}
	il, err := iplist.LoadFile(cfg.GeoIPFile)
	if err != nil {
		return nil, fmt.Errorf("loading geoip file: %w", err)
	}
	logger.WithDefaultLevel(log.Info).Printf("loaded %d ranges from %q", il.NumRanges(), cfg.GeoIPFile)
	return il, nil
}

func serve(ctx context.Context, cfg Config) error {
	logger := newLogger(cfg)
	logger.WithDefaultLevel(log.Info).Printf("starting %v", version.DefaultBuildDescription)
	locator, err := loadLocator(cfg, logger)
	if err != nil {
		return err
	}
	trackerConfig := tracker.NewDefaultTrackerConfig()
	trackerConfig.Logger = logger
	trackerConfig.StatsInterval = cfg.StatsInterval
	if cfg.NATS.URL != "" {
		hostname, _ := os.Hostname()
		pub, err := statspub.Connect(cfg.NATS.URL, cfg.NATS.Subject, hostname, logger)
		if err != nil {
			return err
		}
		defer pub.Close()
		trackerConfig.OnStats = pub.OnStats
	}
	tr := tracker.NewTracker(trackerConfig)
	defer tr.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := tr.RegisterMetrics(reg); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	ws := &wstracker.Server{
		Tracker:      tr,
		Locator:      locator,
		Logger:       logger,
		PingInterval: cfg.PingInterval,
		RateLimit:    rate.Limit(cfg.RateLimit.MessagesPerSecond),
		RateBurst:    cfg.RateLimit.Burst,
	}
	ws.Upgrader.CheckOrigin = wstracker.CheckOrigins(cfg.AllowedOrigins)
	if cfg.TrustForwardedFor {
		ws.RequestHost = wstracker.ForwardedForHost
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: newRouter(cfg, tr, ws, reg),
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.WithDefaultLevel(log.Info).Printf("listening on %v", cfg.ListenAddr)
		serveErr <- httpServer.ListenAndServe()
	}()
	select {
	case err := <-serveErr:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}
	logger.WithDefaultLevel(log.Info).Printf("shutting down")
	ws.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
