package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/storyrig/internal/assets"
	"github.com/ivlev/storyrig/internal/config"
	"github.com/ivlev/storyrig/internal/preview"
	"github.com/ivlev/storyrig/internal/render"
	"github.com/ivlev/storyrig/internal/timeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	flag.StringVar(&cfg.TimelinePath, "timeline", cfg.TimelinePath, "timeline YAML/JSON (default: newest in "+cfg.TimelineDir+")")
	flag.StringVar(&cfg.AssetsPath, "assets", cfg.AssetsPath, "asset metadata YAML")
	flag.StringVar(&cfg.Effects, "effects", cfg.Effects, "effects preset")
	flag.StringVar(&cfg.Mood, "mood", cfg.Mood, "mood override")
	flag.BoolVar(&cfg.AllowOverlap, "allow-overlap", cfg.AllowOverlap, "accept overlapping scenes (later wins)")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "listen port")
	flag.Parse()

	if cfg.TimelinePath == "" {
		if cfg.TimelinePath, err = timeline.FindLatest(cfg.TimelineDir); err != nil {
			logrus.Fatalf("timeline: %v", err)
		}
	}
	read := timeline.Read
	if cfg.AllowOverlap {
		read = timeline.ReadUnchecked
	}
	tl, err := read(cfg.TimelinePath)
	if err != nil {
		logrus.Fatalf("timeline: %v", err)
	}

	reg := assets.Defaults()
	if cfg.AssetsPath != "" {
		if err := reg.LoadMetadata(cfg.AssetsPath); err != nil {
			logrus.Fatalf("assets: %v", err)
		}
	}
	renderer := render.New(reg)
	if err := renderer.Check(tl); err != nil {
		logrus.Warnf("timeline check: %v", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           preview.NewHandler(tl, renderer, cfg.EffectsConfig()).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{"addr": srv.Addr, "timeline": cfg.TimelinePath}).Info("preview server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown failed")
	}
	logrus.Info("preview server stopped")
}
