package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"

	"github.com/Nehilsa2/tiktok_automation/stealth"
)

// LoginURL is where the operator signs in by hand
const LoginURL = "https://www.tiktok.com/login"

// ErrLoginTimeout is returned when the operator does not confirm in time
var ErrLoginTimeout = errors.New("login confirmation timed out")

// Prompt is what the operator sees on the console
const Prompt = "After logging in, press ENTER here..."

// Operator confirms a manual login from a console
type Operator struct {
	In      io.Reader
	Out     io.Writer
	Timeout time.Duration // 0 waits forever
}

// OpenLogin navigates the page to the login form. A slow network-idle
// wait is only a warning: the operator can still use the window.
func OpenLogin(ctx context.Context, page *rod.Page, wait time.Duration, log zerolog.Logger) error {
	err := stealth.Navigate(ctx, page, LoginURL, wait)
	switch {
	case err == nil:
	case errors.Is(err, stealth.ErrTimeout):
		log.Warn().Err(err).Msg("login page is still loading")
	default:
		return fmt.Errorf("failed to open login page: %w", err)
	}

	log.Info().Msg("please log in to your TikTok account in the opened window")
	return nil
}

// WaitForConfirmation blocks until the operator presses ENTER, ctx is done
// or the optional timeout fires.
func (o *Operator) WaitForConfirmation(ctx context.Context) error {
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	if o.Out != nil {
		fmt.Fprint(o.Out, Prompt)
	}

	// The read cannot be interrupted; on cancellation the goroutine is left
	// blocked on the reader until the process exits.
	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(o.In).ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %v", ErrLoginTimeout, o.Timeout)
		}
		return ctx.Err()
	}
}
