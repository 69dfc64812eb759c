package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/palworld-go/palmap/internal/api"
	"github.com/palworld-go/palmap/internal/config"
	"github.com/palworld-go/palmap/internal/logging"
	"github.com/palworld-go/palmap/internal/metrics"
	"github.com/palworld-go/palmap/internal/objects"
	"github.com/palworld-go/palmap/internal/overlay"
	"github.com/palworld-go/palmap/internal/poller"
	"github.com/palworld-go/palmap/internal/surface/stream"
	"github.com/palworld-go/palmap/internal/transform"
	"github.com/palworld-go/palmap/internal/upstream"
	"github.com/palworld-go/palmap/internal/viewer"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"

	AppName string = "palmap"
)

func main() {
	configDir := flag.String("config", ".", "directory containing "+config.ConfigFileName)
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (built %s)\n", AppName, Version, BuildDate)
		return
	}

	if err := run(*configDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	sessionStart := time.Now()

	if err := config.Load(configDir); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	logFile, err := os.OpenFile(
		logging.LogFilePath(logsDir, AppName, sessionStart),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644,
	)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	// The provider closes over the viewer so every record carries its state.
	var v *viewer.Viewer
	slogMgr := logging.NewSlogManager()
	slogMgr.Setup(logFile, config.GetString("logLevel"), func() []slog.Attr {
		if v == nil {
			return nil
		}
		return []slog.Attr{slog.String("viewer_state", v.State().String())}
	})
	logger := slogMgr.Logger()
	logger.Info("Starting", "app", AppName, "version", Version, "buildDate", BuildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pollerOpts := []poller.Option{
		poller.WithNotify(func(message string) {
			logger.Warn("Upstream poll failed", "statusMessage", message)
		}),
	}

	var (
		metricsMgr *metrics.Manager
		viewerOpts []viewer.Option
	)
	if config.GetBool("influx.enabled") {
		zl := zerolog.New(zerolog.MultiLevelWriter(os.Stdout, logFile)).
			With().Timestamp().Str("component", "metrics").Logger()
		metricsMgr = metrics.NewManager(zl, filepath.Join(logsDir, "metrics_backup.gz"))
		if err := metricsMgr.Connect(); err != nil {
			logger.Warn("Metrics disabled", "error", err)
			metricsMgr = nil
		} else {
			defer metricsMgr.Close()
			pollerOpts = append(pollerOpts, poller.WithMetrics(metricsMgr))
			viewerOpts = append(viewerOpts, viewer.WithChangeRecorder(func(cs overlay.ChangeSet) {
				metricsMgr.RecordMarkerOps(cs.Created, cs.Updated, cs.Deleted)
			}))
		}
	}

	surf := stream.New(logger)
	v, err = viewer.New(transform.NewLeafletProjection(), surf, logger, viewerOpts...)
	if err != nil {
		return fmt.Errorf("creating viewer: %w", err)
	}
	v.Init()

	loader := objects.NewLoader(config.GetString("map.objectsFile"))
	if objs, err := loader.Visible(); err != nil {
		logger.Warn("Map objects unavailable at startup", "error", err)
	} else if err := v.SetObjects(objs); err != nil {
		logger.Warn("Seeding map objects failed", "error", err)
	}

	surf.Open()
	if err := v.Open(); err != nil {
		return fmt.Errorf("opening viewer: %w", err)
	}
	defer func() {
		if err := v.Dispose(); err != nil {
			logger.Error("Viewer dispose failed", "error", err)
		}
	}()

	client := upstream.New(
		config.GetString("palworld.host"),
		config.GetInt("palworld.port"),
		config.GetString("palworld.password"),
	)

	p := poller.New(client.Players, v, config.GetDuration("map.pollInterval"), logger, pollerOpts...)
	go p.Run(ctx)

	router := api.NewRouter(api.NewHandler(client, loader, logger), surf)
	addr := net.JoinHostPort(config.GetString("listen.host"), strconv.Itoa(config.GetInt("listen.port")))
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
