package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/viper"

	"github.com/Nehilsa2/tiktok_automation/auth"
	"github.com/Nehilsa2/tiktok_automation/config"
	"github.com/Nehilsa2/tiktok_automation/humanize"
	"github.com/Nehilsa2/tiktok_automation/logging"
	"github.com/Nehilsa2/tiktok_automation/persistence"
	"github.com/Nehilsa2/tiktok_automation/workflow"
)

// runAutomation performs one full run. Aborts are logged, not returned:
// only bad configuration makes the process exit non-zero.
func runAutomation(ctx context.Context, v *viper.Viper, dotenvErr error) error {
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: os.Stdout,
	})
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Logger

	if dotenvErr != nil {
		log.Warn().Err(dotenvErr).Msg("falling back to existing environment variables")
	}
	if cfg.Username != "" || cfg.Password != "" {
		log.Debug().Msg("account credentials are configured but login stays manual")
	}

	var recorder workflow.Recorder
	store, err := persistence.NewStore(cfg.DBPath)
	if err != nil {
		log.Warn().Err(err).Msg("run history disabled")
	} else {
		defer store.Close()
		recorder = store
	}

	operator := &auth.Operator{In: os.Stdin, Out: os.Stdout, Timeout: cfg.LoginTimeout}
	driver := workflow.NewRodDriver(cfg, operator, log)

	res, err := workflow.New(cfg, driver, humanize.NewDice(), recorder, log).Run(ctx)
	switch {
	case res.State == workflow.StateInterrupted:
		log.Warn().Msg("stopped by user")
	case err != nil:
		log.Info().Str("state", string(res.State)).Msg("run aborted")
	}

	return nil
}

// showHistory prints recent runs and the totals for today
func showHistory(out io.Writer, dbPath string, limit int) error {
	store, err := persistence.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}
	today, err := store.GetDailyStats(time.Now())
	if err != nil {
		return fmt.Errorf("failed to load daily stats: %w", err)
	}

	return writeHistory(out, runs, today)
}

func writeHistory(out io.Writer, runs []persistence.Run, today *persistence.DailyStats) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "no runs recorded yet")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tQUERY\tSKIP%\tSTATUS\tTOTAL\tWATCHED\tSKIPPED\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.SearchQuery, r.SkipPercent,
			r.Status, r.Total, r.Watched, r.Skipped, r.Failed)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\ntoday (%s): %d runs, %d watched, %d skipped, %d failed\n",
		today.Date, today.Runs, today.VideosWatched, today.VideosSkipped, today.VideosFailed)
	return err
}
