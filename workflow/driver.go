package workflow

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Nehilsa2/tiktok_automation/auth"
	"github.com/Nehilsa2/tiktok_automation/config"
	"github.com/Nehilsa2/tiktok_automation/search"
	"github.com/Nehilsa2/tiktok_automation/stealth"
	"github.com/Nehilsa2/tiktok_automation/watch"
)

var errNotStarted = errors.New("browser not started")

// RodDriver runs the workflow against a real Chrome session
type RodDriver struct {
	cfg      *config.Config
	operator *auth.Operator
	log      zerolog.Logger

	session *stealth.Session
}

// NewRodDriver creates a driver. The browser is launched by Start.
func NewRodDriver(cfg *config.Config, operator *auth.Operator, log zerolog.Logger) *RodDriver {
	return &RodDriver{cfg: cfg, operator: operator, log: log}
}

func (d *RodDriver) Start(ctx context.Context) error {
	session, err := stealth.Launch(ctx, stealth.LaunchConfig{
		UserDataDir: d.cfg.UserDataDir,
		Headless:    d.cfg.Headless,
		Stealth:     d.cfg.Stealth,
	}, d.log)
	if err != nil {
		return err
	}
	d.session = session
	return nil
}

func (d *RodDriver) Login(ctx context.Context) error {
	if d.session == nil {
		return errNotStarted
	}
	return auth.EnsureAuthenticated(ctx, d.session.Browser(), d.session.MainPage(), d.cfg.SearchWait, d.operator, d.log)
}

func (d *RodDriver) OpenSearch(ctx context.Context, searchURL string) error {
	if d.session == nil {
		return errNotStarted
	}
	return search.OpenSearchPage(ctx, d.session.MainPage(), searchURL, d.cfg.SearchWait)
}

func (d *RodDriver) Harvest(ctx context.Context) ([]string, error) {
	if d.session == nil {
		return nil, errNotStarted
	}

	scroll := stealth.DefaultScrollConfig()
	scroll.Times = d.cfg.ScrollCount
	scroll.Delay = d.cfg.ScrollDelay

	return search.Harvest(ctx, d.session.MainPage(), search.HarvestOptions{
		Max:    d.cfg.MaxVideos,
		Scroll: scroll,
	})
}

// Viewer opens each video in its own stealth tab
func (d *RodDriver) Viewer() watch.Viewer {
	return watch.NewPageViewer(d.session, d.cfg.VideoWait, d.log)
}

func (d *RodDriver) Diagnose() *stealth.PageError {
	if d.session == nil {
		return nil
	}
	if result := stealth.CheckPage(d.session.MainPage()); result.HasError {
		return result.Error
	}
	return nil
}

// Close releases the browser; safe to call more than once
func (d *RodDriver) Close() error {
	if d.session == nil {
		return nil
	}
	return d.session.Close()
}
