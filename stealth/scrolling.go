package stealth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"

	"github.com/Nehilsa2/tiktok_automation/humanize"
)

// ScrollConfig holds configuration for feed scrolling
type ScrollConfig struct {
	Times    int           // wheel actions to perform
	Distance float64       // pixels per wheel action
	Delay    time.Duration // pause after each action
}

// DefaultScrollConfig scrolls three screens with a one second pause
func DefaultScrollConfig() ScrollConfig {
	return ScrollConfig{
		Times:    3,
		Distance: 1000,
		Delay:    time.Second,
	}
}

// ScrollFeed wheels the page down cfg.Times times so infinite-scroll
// results load. It does not verify that new content appeared.
func ScrollFeed(ctx context.Context, page *rod.Page, cfg ScrollConfig) error {
	for i := 0; i < cfg.Times; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := page.Mouse.Scroll(0, cfg.Distance, 1); err != nil {
			return fmt.Errorf("scroll %d/%d: %w", i+1, cfg.Times, err)
		}
		if err := humanize.Sleep(ctx, cfg.Delay); err != nil {
			return err
		}
	}
	return nil
}
