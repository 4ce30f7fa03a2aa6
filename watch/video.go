package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"

	"github.com/Nehilsa2/tiktok_automation/humanize"
	"github.com/Nehilsa2/tiktok_automation/stealth"
)

// VideoSelector appears once the player has mounted
const VideoSelector = "video"

// ErrVideoTimeout is returned when a video page does not load in time
var ErrVideoTimeout = errors.New("video load timed out")

// PageOpener hands out fresh tabs
type PageOpener interface {
	NewPage() (*rod.Page, error)
}

// PageViewer watches videos in a new browser tab per link
type PageViewer struct {
	pages PageOpener
	wait  time.Duration
	log   zerolog.Logger
}

// NewPageViewer creates a viewer that waits up to wait for each video
func NewPageViewer(pages PageOpener, wait time.Duration, log zerolog.Logger) *PageViewer {
	return &PageViewer{pages: pages, wait: wait, log: log}
}

// View opens link in a new tab, waits for the player, holds for hold and
// closes the tab on every path.
func (v *PageViewer) View(ctx context.Context, link string, hold time.Duration) error {
	page, err := v.pages.NewPage()
	if err != nil {
		return err
	}
	defer func() {
		if err := page.Close(); err != nil {
			v.log.Debug().Err(err).Str("url", link).Msg("failed to close video page")
		}
	}()

	if err := stealth.Navigate(ctx, page, link, v.wait); err != nil {
		return v.explain(ctx, page, err)
	}

	if _, err := stealth.WaitSelector(ctx, page, VideoSelector, v.wait); err != nil {
		return v.explain(ctx, page, err)
	}

	return humanize.Sleep(ctx, hold)
}

// explain tags timeouts and attaches any blocking state seen on the page
func (v *PageViewer) explain(ctx context.Context, page *rod.Page, err error) error {
	if ctx.Err() != nil {
		return err
	}

	if errors.Is(err, stealth.ErrTimeout) {
		err = fmt.Errorf("%w: %w", ErrVideoTimeout, err)
	}

	if result := stealth.CheckPage(page); result.HasError {
		err = fmt.Errorf("%w (%s)", err, result.Error.Message)
	}

	return err
}
