// Package workflow runs one automation pass: login, search, harvest,
// watch and report. Every abort path closes the browser exactly once.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nehilsa2/tiktok_automation/auth"
	"github.com/Nehilsa2/tiktok_automation/config"
	"github.com/Nehilsa2/tiktok_automation/humanize"
	"github.com/Nehilsa2/tiktok_automation/persistence"
	"github.com/Nehilsa2/tiktok_automation/search"
	"github.com/Nehilsa2/tiktok_automation/stealth"
	"github.com/Nehilsa2/tiktok_automation/watch"
)

// ErrNoLinks is returned when the results page yields no usable link
var ErrNoLinks = errors.New("no video links found")

// Driver is the browser side of a run
type Driver interface {
	Start(ctx context.Context) error
	Login(ctx context.Context) error
	OpenSearch(ctx context.Context, searchURL string) error
	Harvest(ctx context.Context) ([]string, error)
	Viewer() watch.Viewer
	// Diagnose inspects the main page after a failure; nil means nothing
	// recognisable was found.
	Diagnose() *stealth.PageError
	Close() error
}

// Recorder keeps run history
type Recorder interface {
	StartRun(run *persistence.Run) error
	FinishRun(run *persistence.Run) error
}

// State is where a run ended
type State string

const (
	StateCompleted   State = "completed"
	StateNoResults   State = "aborted_no_results"
	StateNoLinks     State = "aborted_no_links"
	StateLoginFailed State = "aborted_login"
	StateInterrupted State = "interrupted"
	StateFailed      State = "failed"
)

// Result summarises a finished run
type Result struct {
	State State
	Links int
	Stats watch.Stats
}

// Runner drives a single run
type Runner struct {
	cfg      *config.Config
	driver   Driver
	dice     *humanize.Dice
	recorder Recorder
	log      zerolog.Logger
}

// New creates a runner. recorder may be nil.
func New(cfg *config.Config, driver Driver, dice *humanize.Dice, recorder Recorder, log zerolog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		driver:   driver,
		dice:     dice,
		recorder: recorder,
		log:      log,
	}
}

// Run walks the state machine. The returned error is the abort reason;
// the caller only logs it, a run never retries.
func (r *Runner) Run(ctx context.Context) (res Result, err error) {
	run := &persistence.Run{
		SearchQuery: r.cfg.SearchQuery,
		SkipPercent: r.cfg.SkipPercent,
		MaxVideos:   r.cfg.MaxVideos,
		StartedAt:   time.Now(),
	}
	r.startRun(run)

	defer func() {
		if cerr := r.driver.Close(); cerr != nil {
			r.log.Warn().Err(cerr).Msg("failed to close browser")
		}
		r.finishRun(run, res, err)
	}()

	r.log.Info().Msg("starting TikTok automation")
	r.log.Info().
		Str("query", r.cfg.SearchQuery).
		Int("skip_percent", r.cfg.SkipPercent).
		Int("max_videos", r.cfg.MaxVideos).
		Msgf("search query: %s, skip%% = %d, max videos = %d", r.cfg.SearchQuery, r.cfg.SkipPercent, r.cfg.MaxVideos)

	if err := r.driver.Start(ctx); err != nil {
		r.log.Error().Err(err).Msg("failed to start browser")
		return r.abort(ctx, res, StateFailed, err)
	}

	// Logging in
	if err := r.driver.Login(ctx); err != nil {
		if errors.Is(err, auth.ErrLoginTimeout) {
			r.log.Error().Err(err).Msg("login was not confirmed in time")
		} else if ctx.Err() == nil {
			r.log.Error().Err(err).Msg("login failed")
		}
		return r.abort(ctx, res, StateLoginFailed, err)
	}
	r.log.Info().Msg("authorization completed")

	// Searching
	searchURL := search.BuildURL(r.cfg.SearchQuery, r.cfg.EncodeQuery)
	r.log.Info().Str("url", searchURL).Msgf("opening %s", searchURL)

	if err := r.driver.OpenSearch(ctx, searchURL); err != nil {
		if ctx.Err() == nil {
			r.logFailure(err, "failed to load search results")
		}
		return r.abort(ctx, res, StateNoResults, err)
	}
	r.log.Info().Msg("search results loaded")

	// Harvesting
	links, err := r.driver.Harvest(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logFailure(err, "failed to collect video links")
		}
		return r.abort(ctx, res, StateFailed, err)
	}
	res.Links = len(links)
	if len(links) == 0 {
		r.log.Warn().Msg("no video links found")
		return r.abort(ctx, res, StateNoLinks, ErrNoLinks)
	}
	r.log.Info().Int("links", len(links)).Msgf("collected links: %d", len(links))

	// Watching
	loop := watch.NewLoop(r.driver.Viewer(), r.dice, watch.Options{
		SkipPercent: r.cfg.SkipPercent,
		WatchMin:    r.cfg.WatchMin,
		WatchMax:    r.cfg.WatchMax,
	}, r.log)

	stats, err := loop.Run(ctx, links)
	res.Stats = stats
	if err != nil {
		return r.abort(ctx, res, StateInterrupted, err)
	}

	// Reporting
	stats.Report(r.log)
	res.State = StateCompleted
	return res, nil
}

// abort keeps the partial result. Cancellation always wins over the
// state the step would have ended in.
func (r *Runner) abort(ctx context.Context, res Result, state State, err error) (Result, error) {
	res.State = state
	if ctx.Err() != nil {
		res.State = StateInterrupted
	}
	return res, err
}

func (r *Runner) logFailure(err error, msg string) {
	ev := r.log.Error().Err(err)
	if pageErr := r.driver.Diagnose(); pageErr != nil {
		ev = ev.Str("page_state", string(pageErr.Type)).Str("page_message", pageErr.Message)
	}
	ev.Msg(msg)
}

func (r *Runner) startRun(run *persistence.Run) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.StartRun(run); err != nil {
		r.log.Warn().Err(err).Msg("failed to record run start")
	}
}

func (r *Runner) finishRun(run *persistence.Run, res Result, err error) {
	if r.recorder == nil || run.ID == 0 {
		return
	}

	run.Status = persistence.RunStatus(res.State)
	run.Total = res.Stats.Total
	run.Watched = res.Stats.Watched
	run.Skipped = res.Stats.Skipped
	run.Failed = res.Stats.Failed
	if err != nil {
		run.ErrorMessage = err.Error()
	}

	if ferr := r.recorder.FinishRun(run); ferr != nil {
		r.log.Warn().Err(ferr).Msg("failed to record run result")
	}
}
