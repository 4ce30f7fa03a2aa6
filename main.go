package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nehilsa2/tiktok_automation/config"
)

func main() {
	// A missing .env is not fatal, it is logged once the logger exists
	dotenvErr := config.LoadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.NewViper(), dotenvErr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper, dotenvErr error) *cobra.Command {
	d := config.Default()

	root := &cobra.Command{
		Use:           "tiktok_automation",
		Short:         "Search TikTok and watch or skip the results like a person would",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutomation(cmd.Context(), v, dotenvErr)
		},
	}

	flags := root.Flags()
	flags.StringP("query", "q", d.SearchQuery, "search query")
	flags.IntP("skip-percent", "s", d.SkipPercent, "chance in percent that a video is skipped")
	flags.IntP("max-videos", "n", d.MaxVideos, "maximum number of links to collect")
	flags.Duration("search-wait", d.SearchWait, "timeout for the search results")
	flags.Duration("video-wait", d.VideoWait, "timeout for each video page")
	flags.Duration("login-timeout", d.LoginTimeout, "how long to wait for login confirmation (0 waits forever)")
	flags.Int("watch-min", d.WatchMin, "shortest watch in seconds")
	flags.Int("watch-max", d.WatchMax, "longest watch in seconds")
	flags.Int("scroll-count", d.ScrollCount, "scrolls before collecting links")
	flags.Duration("scroll-delay", d.ScrollDelay, "pause after each scroll")
	flags.String("user-data-dir", d.UserDataDir, "persistent browser profile directory")
	flags.Bool("headless", d.Headless, "run Chrome without a window")
	flags.Bool("stealth", d.Stealth, "inject stealth evasions into every page")
	flags.Bool("encode-query", d.EncodeQuery, "URL-encode the search query")
	flags.String("log-file", d.LogFile, "append-only log file")
	flags.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")

	bind(v, root, map[string]string{
		config.KeySearchQuery:  "query",
		config.KeySkipPercent:  "skip-percent",
		config.KeyMaxVideos:    "max-videos",
		config.KeySearchWait:   "search-wait",
		config.KeyVideoWait:    "video-wait",
		config.KeyLoginTimeout: "login-timeout",
		config.KeyWatchMin:     "watch-min",
		config.KeyWatchMax:     "watch-max",
		config.KeyScrollCount:  "scroll-count",
		config.KeyScrollDelay:  "scroll-delay",
		config.KeyUserDataDir:  "user-data-dir",
		config.KeyHeadless:     "headless",
		config.KeyStealth:      "stealth",
		config.KeyEncodeQuery:  "encode-query",
		config.KeyLogFile:      "log-file",
		config.KeyLogLevel:     "log-level",
	})

	root.PersistentFlags().String("db", d.DBPath, "run history database")
	if err := v.BindPFlag(config.KeyDBPath, root.PersistentFlags().Lookup("db")); err != nil {
		panic(err)
	}

	root.AddCommand(newHistoryCmd(v))
	return root
}

// bind maps viper keys onto local flags of cmd
func bind(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs and today's totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(cmd.OutOrStdout(), v.GetString(config.KeyDBPath), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "number of runs to show")
	return cmd
}
