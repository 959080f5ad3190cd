// Package daemon runs the capture-detect-deliver loop: a single
// cooperative ticker that drains the image sources, suppresses repeats,
// delivers novel captures, and writes the resulting path back onto the
// clipboard. Each tick runs to completion before the next is considered,
// and a failing tick never terminates the loop.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipshot/clipshot/internal/clipboard"
	"github.com/clipshot/clipshot/internal/detect"
	"github.com/clipshot/clipshot/internal/sink"
	"github.com/clipshot/clipshot/internal/source"
)

// DefaultPollInterval is the tick cadence.
const DefaultPollInterval = 200 * time.Millisecond

// Daemon owns the loop state. All mutation happens on the tick
// goroutine; nothing here is shared.
type Daemon struct {
	target   sink.Target
	interval time.Duration

	src   source.Source
	shots source.Source // independent screenshot-file source, macOS only
	det   detect.Detector
	sink  sink.Sink
	clip  clipboard.Writer
	log   zerolog.Logger
	now   func() time.Time
}

// New wires the loop. shots may be nil on platforms without a
// screenshot-file source.
func New(target sink.Target, interval time.Duration, src source.Source, shots source.Source,
	snk sink.Sink, clip clipboard.Writer, log zerolog.Logger) *Daemon {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Daemon{
		target:   target,
		interval: interval,
		src:      src,
		shots:    shots,
		sink:     snk,
		clip:     clip,
		log:      log,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled. The first acquisition seeds the
// change detector without delivering, so whatever was on the clipboard
// when the daemon started is not re-shipped.
func (d *Daemon) Run(ctx context.Context) error {
	if b := d.src.Acquire(ctx); len(b) > 0 {
		d.det.Observe(b)
		d.log.Info().Int("bytes", len(b)).Msg("seeded from existing clipboard content")
	}
	d.log.Info().
		Str("target", d.target.String()).
		Dur("interval", d.interval).
		Msg("watching clipboard")

	t := time.NewTicker(d.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			d.tick(ctx)
		}
	}
}

// tick runs one capture-detect-deliver cycle. Panics are confined to the
// tick boundary: the loop must survive anything a single cycle does.
func (d *Daemon) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Msg("tick failed")
		}
	}()

	d.pump(ctx, d.src)
	if d.shots != nil {
		d.pump(ctx, d.shots)
	}
}

func (d *Daemon) pump(ctx context.Context, src source.Source) {
	b := src.Acquire(ctx)
	if len(b) == 0 || !d.det.ShouldDeliver(b) {
		return
	}
	d.deliver(ctx, b)
}

// deliver ships one image and, on success, writes the path back and logs
// it — in that order. A failed delivery skips both: the fingerprint is
// already committed, so the image is not retried.
func (d *Daemon) deliver(ctx context.Context, b []byte) {
	d.log.Info().Str("size", formatSize(len(b))).Msg("new screenshot")

	res := d.sink.Deliver(ctx, b, sink.Filename(d.now()))
	if !res.OK {
		d.log.Error().
			Str("target", d.target.String()).
			Str("path", res.Path).
			Str("detail", res.Detail).
			Msg("delivery failed")
		return
	}

	d.clip.Write(ctx, res.Path)
	d.log.Info().Str("path", res.Path).Msg("saved")
}

func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%dB", n)
	}
	return fmt.Sprintf("%dKB", n/1024)
}
