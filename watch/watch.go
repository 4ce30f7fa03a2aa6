// Package watch visits harvested videos one at a time, randomly skipping
// some and holding on the rest for a human-looking duration.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nehilsa2/tiktok_automation/humanize"
)

// Viewer opens a single video, holds on it and always releases the page
type Viewer interface {
	View(ctx context.Context, link string, hold time.Duration) error
}

// Options for the watch loop
type Options struct {
	SkipPercent int
	WatchMin    int // seconds
	WatchMax    int // seconds
}

// Loop runs the sequential watch/skip pass over a link set
type Loop struct {
	viewer Viewer
	dice   *humanize.Dice
	opts   Options
	log    zerolog.Logger
}

// NewLoop creates a watch loop
func NewLoop(viewer Viewer, dice *humanize.Dice, opts Options, log zerolog.Logger) *Loop {
	return &Loop{
		viewer: viewer,
		dice:   dice,
		opts:   opts,
		log:    log,
	}
}

// Run visits links in order. A failing video is logged and the loop moves
// on; only ctx cancellation stops it early, returning the partial stats.
func (l *Loop) Run(ctx context.Context, links []string) (Stats, error) {
	stats := Stats{Total: len(links)}

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		tag := fmt.Sprintf("%d/%d", i+1, stats.Total)
		entry := l.log.With().Str("video", tag).Str("url", link).Logger()

		if l.dice.Skip(l.opts.SkipPercent) {
			stats.Skipped++
			entry.Info().Msgf("%s | %s | SKIPPED", tag, link)
			continue
		}

		stats.Watched++
		entry.Info().Msgf("%s | %s | WATCHING...", tag, link)

		hold := l.dice.Seconds(l.opts.WatchMin, l.opts.WatchMax)
		err := l.viewer.View(ctx, link, hold)

		switch {
		case err == nil:
			entry.Info().Dur("watched_for", hold).Msgf("%s | %s | WATCHED in %ds", tag, link, int(hold.Seconds()))
		case ctx.Err() != nil:
			return stats, ctx.Err()
		case errors.Is(err, ErrVideoTimeout):
			stats.Failed++
			stats.TimedOut++
			entry.Error().Err(err).Msgf("%s | %s | VIDEO LOAD TIMEOUT", tag, link)
		default:
			stats.Failed++
			entry.Error().Err(err).Msgf("%s | %s | ERROR WHILE WATCHING: %v", tag, link, err)
		}
	}

	return stats, nil
}
