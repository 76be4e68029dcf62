// Command voxelworld streams a voxel world around an observer that walks a
// scripted path, persisting regions as it goes. With -serve it also streams
// chunk meshes to WebSocket viewers.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voxel-engine/internal/config"
	"voxel-engine/internal/game"
	"voxel-engine/internal/profiling"
	"voxel-engine/internal/render"
	"voxel-engine/internal/transport/meshstream"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		worldName  = flag.String("world", "", "world name (overrides config)")
		loadRange  = flag.Int("range", 0, "load range in chunks (overrides config)")
		path       = flag.String("path", "0,0,0;80,0,0", "observer waypoints x,y,z;x,y,z")
		speed      = flag.Float64("speed", 4, "observer speed in voxels per tick")
		maxTicks   = flag.Int("ticks", 0, "stop after this many ticks; 0 runs until the path ends")
		serve      = flag.String("serve", "", "listen address for the WebSocket mesh stream")
		regenerate = flag.Bool("regenerate", false, "ignore saved regions")
		codec      = flag.String("compression", "", "region codec none|zstd|lz4 (overrides config)")
		reportN    = flag.Int("report", 60, "log stats every N ticks")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *worldName != "" {
		cfg.World.Name = *worldName
	}
	if *loadRange > 0 {
		cfg.Streaming.LoadRange = *loadRange
	}
	if *serve != "" {
		cfg.Stream.Listen = *serve
	}
	if *regenerate {
		cfg.Storage.Regenerate = true
	}
	if *codec != "" {
		cfg.Storage.Compression = *codec
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	points, err := parsePath(*path)
	if err != nil {
		logger.Fatalf("path: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var surface render.Surface = render.NewRecorder()
	var httpSrv *http.Server
	if cfg.Stream.Listen != "" {
		stream := meshstream.NewServer(logger)
		defer stream.Close()
		surface = stream

		mux := http.NewServeMux()
		mux.Handle(cfg.Stream.Path, stream.Handler())
		httpSrv = &http.Server{Addr: cfg.Stream.Listen, Handler: mux}
		go func() {
			logger.Printf("meshstream: listening on %s%s", cfg.Stream.Listen, cfg.Stream.Path)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("meshstream: %v", err)
			}
		}()
	}

	prof := profiling.New()
	w, err := game.OpenWorld(cfg, surface, logger, prof)
	if err != nil {
		logger.Fatalf("open world: %v", err)
	}

	walk := newWalker(points, float32(*speed))
	limiter := game.NewLimiter(cfg.Streaming.TickRate)
	stats := w.Session.Init(points[0])
	logger.Printf("tick 0: %+v", stats)

	start := time.Now()
	ticks := 0
loop:
	for !walk.Done() && (*maxTicks <= 0 || ticks < *maxTicks) {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		prof.Reset()
		stats = w.Session.Tick(walk.Step())
		ticks++
		if *reportN > 0 && ticks%*reportN == 0 {
			logger.Printf("tick %d: observer %v loaded %d visible %d pool %d/%d | %s",
				ticks, stats.Observer, len(w.Session.Loaded()), len(w.Session.Visible()),
				w.Session.Pool().InUse(), w.Session.Pool().Capacity(), prof.TopN(3))
		}
		limiter.Wait()
	}
	logger.Printf("ran %d ticks in %v", ticks, time.Since(start).Round(time.Millisecond))

	if err := w.Close(); err != nil {
		logger.Printf("close world: %v", err)
	}
	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = httpSrv.Shutdown(shutdownCtx)
		cancel()
	}
}
