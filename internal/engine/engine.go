// Package engine drives batch renders: it fans frames out to a bounded worker
// pool, writes each finished tree to disk and reports timing.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/storyrig/internal/camera"
	"github.com/ivlev/storyrig/internal/config"
	"github.com/ivlev/storyrig/internal/effects"
	"github.com/ivlev/storyrig/internal/render"
	"github.com/ivlev/storyrig/internal/scenegraph"
	"github.com/ivlev/storyrig/internal/system"
	"github.com/ivlev/storyrig/internal/timeline"
)

var log = logrus.WithField("component", "engine")

// ErrEmptyRange is returned when the requested frame range holds no frames.
var ErrEmptyRange = errors.New("empty frame range")

// Project is one batch render of a timeline.
type Project struct {
	Config   *config.Config
	Timeline *timeline.Timeline
	Renderer *render.Engine
}

// Stats summarizes a finished run.
type Stats struct {
	Frames  int
	Bytes   int64
	Render  time.Duration
	Write   time.Duration
	Total   time.Duration
	Workers int
}

// FPS is the effective throughput.
func (s Stats) FPS() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Total.Seconds()
}

// NewProject binds a config, a timeline and a renderer.
func NewProject(cfg *config.Config, tl *timeline.Timeline, r *render.Engine) *Project {
	if r == nil {
		r = render.New(nil)
	}
	return &Project{Config: cfg, Timeline: tl, Renderer: r}
}

// FramesFor converts a duration in seconds to a whole frame count, rounding
// up so narration is never cut short.
func FramesFor(seconds float64, fps int) int {
	if seconds <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Ceil(seconds * float64(fps)))
}

// Range returns the [from, to) frames to render. A zero To means the end of
// the timeline.
func (p *Project) Range() (int, int, error) {
	from, to := p.Config.From, p.Config.To
	if to == 0 {
		to = p.Timeline.End()
	}
	if from < 0 || to <= from {
		return 0, 0, fmt.Errorf("%w: [%d, %d)", ErrEmptyRange, from, to)
	}
	return from, to, nil
}

// FramesDir is where Run writes frame files.
func (p *Project) FramesDir() string {
	return filepath.Join(p.Config.OutputDir, "frames")
}

// FramePath returns the file name of frame.
func (p *Project) FramePath(frame int) string {
	return filepath.Join(p.FramesDir(), fmt.Sprintf("frame_%06d.json", frame))
}

// Run renders every frame of the range. Frames are independent, so they are
// rendered in any order by up to Config.Workers goroutines; the first error
// cancels the rest.
func (p *Project) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	from, to, err := p.Range()
	if err != nil {
		return Stats{}, err
	}
	if err := os.MkdirAll(p.FramesDir(), 0755); err != nil {
		return Stats{}, err
	}

	workers := p.Config.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers()
	}
	if n := to - from; workers > n {
		workers = n
	}

	fx := p.Config.EffectsConfig()
	var renderNanos, writeNanos, written, done atomic.Int64
	total := to - from

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for frame := from; frame < to; frame++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			graph := p.Renderer.RenderFrameAt(frame, p.Timeline, fx)
			t1 := time.Now()
			n, err := p.writeFrame(graph)
			if err != nil {
				return fmt.Errorf("frame %d: %w", frame, err)
			}
			renderNanos.Add(int64(t1.Sub(t0)))
			writeNanos.Add(int64(time.Since(t1)))
			written.Add(n)
			if d := done.Add(1); d%100 == 0 || int(d) == total {
				log.WithFields(logrus.Fields{"done": d, "total": total}).Info("frames rendered")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Frames:  total,
		Bytes:   written.Load(),
		Render:  time.Duration(renderNanos.Load()),
		Write:   time.Duration(writeNanos.Load()),
		Total:   time.Since(start),
		Workers: workers,
	}
	if p.Config.ShowStats {
		p.report(stats)
	}
	return stats, nil
}

// writeFrame encodes graph (or its draw commands) through a pooled buffer.
func (p *Project) writeFrame(graph *scenegraph.Graph) (int64, error) {
	buf := system.GetBuffer()
	defer system.PutBuffer(buf)

	var v any = graph
	if p.Config.Commands {
		v = scenegraph.Compile(graph)
	}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return 0, err
	}
	if err := os.WriteFile(p.FramePath(graph.Frame), buf.Bytes(), 0644); err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}

// report prints the performance summary and appends it to benchmark.log in
// the output directory.
func (p *Project) report(s Stats) {
	host := system.Host()
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Workers: %d\n"+
			"Frames: %d (%.1f MiB)\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU, summed): %.2fs\n"+
			"Writing (summed): %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, host, s.Workers, s.Frames, float64(s.Bytes)/(1<<20),
		s.Total.Seconds(), s.Render.Seconds(), s.Write.Seconds(), s.FPS(),
	)
	fmt.Print(report)

	entry := fmt.Sprintf("[%s] Build: %s | Timeline: %s | Frames: %d | Workers: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.TimelinePath),
		s.Frames,
		s.Workers,
		s.Total.Seconds(),
		s.Render.Seconds(),
		s.FPS(),
	)
	f, err := os.OpenFile(filepath.Join(p.Config.OutputDir, "benchmark.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.WithError(err).Warn("could not write benchmark.log")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(entry); err != nil {
		log.WithError(err).Warn("could not write benchmark.log")
	}
}

// PostScript returns one line per scene for hosts that rasterize frames and
// finish them with FFmpeg: the scene interval, a zoompan expression for
// keyframed camera paths and the effects chain. Fields are tab separated;
// empty fields are "-".
func (p *Project) PostScript() string {
	w, h := p.Timeline.Canvas()
	fps := p.Timeline.FPS
	if fps <= 0 {
		fps = p.Config.FPS
	}
	fx := p.Config.EffectsConfig()

	var b strings.Builder
	for _, s := range p.Timeline.Scenes {
		zoom := "-"
		if s.CameraPath != nil && s.CameraPath.Mode == camera.ModeKeyframes && len(s.CameraPath.Keyframes) > 0 {
			zoom = camera.ZoomPanFilter(s.CameraPath.Keyframes, w, h, fps)
		}
		chain := effects.FFmpegChain(fx.Resolve(s.Effects, s.Mood), w, h)
		if chain == "" {
			chain = "-"
		}
		fmt.Fprintf(&b, "%s\t%d\t%d\t%s\t%s\n", s.ID, s.Start, s.End, zoom, chain)
	}
	return b.String()
}

// WritePostScript writes PostScript to post_filters.txt in the output
// directory and returns its path.
func (p *Project) WritePostScript() (string, error) {
	if err := os.MkdirAll(p.Config.OutputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(p.Config.OutputDir, "post_filters.txt")
	return path, os.WriteFile(path, []byte(p.PostScript()), 0644)
}
