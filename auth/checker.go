package auth

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"
)

// EnsureAuthenticated opens the login page and holds the run until the
// operator confirms a manual login. Credentials are never typed in.
func EnsureAuthenticated(ctx context.Context, browser *rod.Browser, page *rod.Page, wait time.Duration, op *Operator, log zerolog.Logger) error {
	if ok, err := SessionCookiePresent(browser); err != nil {
		log.Warn().Err(err).Msg("could not read profile cookies")
	} else if ok {
		log.Info().Msg("profile already holds a TikTok session, confirm to continue")
	}

	if err := OpenLogin(ctx, page, wait, log); err != nil {
		return err
	}

	if err := op.WaitForConfirmation(ctx); err != nil {
		return err
	}

	log.Info().Msg("login confirmed")
	return nil
}
