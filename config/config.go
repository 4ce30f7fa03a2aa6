// Package config loads run settings from .env, the environment and CLI flags
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys shared by viper, env vars and flag bindings
const (
	KeyUsername     = "tiktok_username"
	KeyPassword     = "tiktok_password"
	KeySearchQuery  = "search_query"
	KeySkipPercent  = "skip_percent"
	KeyMaxVideos    = "max_videos"
	KeySearchWait   = "search_wait"
	KeyVideoWait    = "video_wait"
	KeyLoginTimeout = "login_timeout"
	KeyWatchMin     = "watch_min"
	KeyWatchMax     = "watch_max"
	KeyScrollCount  = "scroll_count"
	KeyScrollDelay  = "scroll_delay"
	KeyUserDataDir  = "user_data_dir"
	KeyHeadless     = "headless"
	KeyStealth      = "stealth"
	KeyEncodeQuery  = "encode_query"
	KeyLogFile      = "log_file"
	KeyLogLevel     = "log_level"
	KeyDBPath       = "db_path"
)

// Config holds everything a single run needs. It is built once at startup
// and never mutated afterwards.
type Config struct {
	// Account values are read for completeness; login is always manual.
	Username string
	Password string

	SearchQuery string
	SkipPercent int
	MaxVideos   int

	SearchWait   time.Duration
	VideoWait    time.Duration
	LoginTimeout time.Duration // 0 waits for the operator forever

	// Watch duration bounds, whole seconds
	WatchMin int
	WatchMax int

	ScrollCount int
	ScrollDelay time.Duration

	UserDataDir string
	Headless    bool
	Stealth     bool
	EncodeQuery bool

	LogFile  string
	LogLevel string
	DBPath   string
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		SearchQuery:  "dance",
		SkipPercent:  12,
		MaxVideos:    20,
		SearchWait:   20 * time.Second,
		VideoWait:    15 * time.Second,
		LoginTimeout: 0,
		WatchMin:     15,
		WatchMax:     45,
		ScrollCount:  3,
		ScrollDelay:  time.Second,
		UserDataDir:  "./user_data",
		Headless:     false,
		Stealth:      true,
		EncodeQuery:  true,
		LogFile:      "tiktok_automation.log",
		LogLevel:     "info",
		DBPath:       "tiktok_automation.db",
	}
}

// SetDefaults registers Default() values on v so unset keys resolve.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeySearchQuery, d.SearchQuery)
	v.SetDefault(KeySkipPercent, d.SkipPercent)
	v.SetDefault(KeyMaxVideos, d.MaxVideos)
	v.SetDefault(KeySearchWait, d.SearchWait)
	v.SetDefault(KeyVideoWait, d.VideoWait)
	v.SetDefault(KeyLoginTimeout, d.LoginTimeout)
	v.SetDefault(KeyWatchMin, d.WatchMin)
	v.SetDefault(KeyWatchMax, d.WatchMax)
	v.SetDefault(KeyScrollCount, d.ScrollCount)
	v.SetDefault(KeyScrollDelay, d.ScrollDelay)
	v.SetDefault(KeyUserDataDir, d.UserDataDir)
	v.SetDefault(KeyHeadless, d.Headless)
	v.SetDefault(KeyStealth, d.Stealth)
	v.SetDefault(KeyEncodeQuery, d.EncodeQuery)
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyDBPath, d.DBPath)
}

// LoadDotEnv reads the given .env files into the process environment.
// Existing variables win. A missing file is reported but is not fatal.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("unable to load .env file: %w", err)
	}
	return nil
}

// NewViper returns a viper instance wired to the environment with defaults.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// FromViper builds a validated Config from resolved viper keys.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Username:     v.GetString(KeyUsername),
		Password:     v.GetString(KeyPassword),
		SearchQuery:  v.GetString(KeySearchQuery),
		SkipPercent:  v.GetInt(KeySkipPercent),
		MaxVideos:    v.GetInt(KeyMaxVideos),
		SearchWait:   durationOrMillis(v, KeySearchWait),
		VideoWait:    durationOrMillis(v, KeyVideoWait),
		LoginTimeout: durationOrMillis(v, KeyLoginTimeout),
		WatchMin:     v.GetInt(KeyWatchMin),
		WatchMax:     v.GetInt(KeyWatchMax),
		ScrollCount:  v.GetInt(KeyScrollCount),
		ScrollDelay:  durationOrMillis(v, KeyScrollDelay),
		UserDataDir:  v.GetString(KeyUserDataDir),
		Headless:     v.GetBool(KeyHeadless),
		Stealth:      v.GetBool(KeyStealth),
		EncodeQuery:  v.GetBool(KeyEncodeQuery),
		LogFile:      v.GetString(KeyLogFile),
		LogLevel:     v.GetString(KeyLogLevel),
		DBPath:       v.GetString(KeyDBPath),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// durationOrMillis accepts "20s"-style durations and bare integers, which
// are read as milliseconds.
func durationOrMillis(v *viper.Viper, key string) time.Duration {
	if ms, err := strconv.ParseInt(v.GetString(key), 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return v.GetDuration(key)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.SearchQuery == "" {
		errs = append(errs, errors.New("search query must not be empty"))
	}
	if c.SkipPercent < 0 || c.SkipPercent > 100 {
		errs = append(errs, fmt.Errorf("skip percent %d outside 0-100", c.SkipPercent))
	}
	if c.MaxVideos < 1 {
		errs = append(errs, fmt.Errorf("max videos must be at least 1, got %d", c.MaxVideos))
	}
	if c.SearchWait <= 0 {
		errs = append(errs, fmt.Errorf("search wait must be positive, got %v", c.SearchWait))
	}
	if c.VideoWait <= 0 {
		errs = append(errs, fmt.Errorf("video wait must be positive, got %v", c.VideoWait))
	}
	if c.LoginTimeout < 0 {
		errs = append(errs, fmt.Errorf("login timeout must not be negative, got %v", c.LoginTimeout))
	}
	if c.WatchMin < 0 || c.WatchMin > c.WatchMax {
		errs = append(errs, fmt.Errorf("watch range %d-%d is invalid", c.WatchMin, c.WatchMax))
	}
	if c.ScrollCount < 0 {
		errs = append(errs, fmt.Errorf("scroll count must not be negative, got %d", c.ScrollCount))
	}
	if c.UserDataDir == "" {
		errs = append(errs, errors.New("user data dir must not be empty"))
	}

	return errors.Join(errs...)
}
