package stealth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	rodstealth "github.com/go-rod/stealth"
	"github.com/rs/zerolog"
)

// LaunchConfig holds configuration for the persistent browser
type LaunchConfig struct {
	UserDataDir string // profile directory kept between runs
	Headless    bool
	Stealth     bool // inject go-rod/stealth evasions into every page
	Bin         string
}

// Session owns one launched browser and its main page.
// Close is idempotent.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	stealth bool
	log     zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// CreateLauncher builds a Chrome launcher bound to a persistent profile
//
//   - "no-sandbox", "disable-dev-shm-usage": run inside containers
//   - "disable-blink-features=AutomationControlled": keeps
//     navigator.webdriver unset
//   - "no-first-run", "no-default-browser-check": skip first-run dialogs
func CreateLauncher(cfg LaunchConfig) *launcher.Launcher {
	l := launcher.New().
		UserDataDir(cfg.UserDataDir).
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled").
		Set("no-first-run").
		Set("no-default-browser-check").
		Headless(cfg.Headless).
		Leakless(false)

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	} else if path, ok := launcher.LookPath(); ok {
		l = l.Bin(path)
	}

	return l
}

// Launch starts the browser on the persistent profile and prepares the
// main page, reusing the tab Chrome restores if there is one.
func Launch(ctx context.Context, cfg LaunchConfig, log zerolog.Logger) (*Session, error) {
	dir, err := filepath.Abs(cfg.UserDataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profile directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}
	cfg.UserDataDir = dir

	log.Info().
		Str("profile", dir).
		Bool("headless", cfg.Headless).
		Bool("stealth", cfg.Stealth).
		Msg("launching browser")

	controlURL, err := CreateLauncher(cfg).Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	s := &Session{
		browser: browser,
		stealth: cfg.Stealth,
		log:     log,
	}

	page, err := s.mainPage()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.page = page

	return s, nil
}

// mainPage returns the first open tab, or a fresh one
func (s *Session) mainPage() (*rod.Page, error) {
	pages, err := s.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	if page := pages.First(); page != nil {
		if s.stealth {
			if _, err := page.EvalOnNewDocument(rodstealth.JS); err != nil {
				return nil, fmt.Errorf("failed to inject stealth script: %w", err)
			}
		}
		return page, nil
	}

	return s.NewPage()
}

// Browser exposes the underlying rod browser
func (s *Session) Browser() *rod.Browser {
	return s.browser
}

// MainPage is the page used for login, search and harvesting
func (s *Session) MainPage() *rod.Page {
	return s.page
}

// NewPage opens a blank tab, with stealth evasions when enabled
func (s *Session) NewPage() (*rod.Page, error) {
	if s.stealth {
		page, err := rodstealth.Page(s.browser)
		if err != nil {
			return nil, fmt.Errorf("failed to create stealth page: %w", err)
		}
		return page, nil
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page, nil
}

// Close shuts the browser down exactly once. The profile directory is
// left on disk so the session survives.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.log.Info().Msg("closing browser")
		s.closeErr = s.browser.Close()
	})
	return s.closeErr
}
