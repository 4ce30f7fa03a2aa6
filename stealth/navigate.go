package stealth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// ErrTimeout marks a navigation or selector wait that ran out of time
var ErrTimeout = errors.New("timed out")

// Navigate loads url and waits up to timeout for the network to go idle.
func Navigate(ctx context.Context, page *rod.Page, url string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := page.Context(tctx)

	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := p.Navigate(url); err != nil {
		return classify(ctx, tctx, fmt.Errorf("navigate %s: %w", url, err))
	}
	wait()

	if err := tctx.Err(); err != nil {
		return classify(ctx, tctx, fmt.Errorf("network idle on %s: %w", url, err))
	}
	return nil
}

// WaitSelector waits up to timeout for selector to match an element.
func WaitSelector(ctx context.Context, page *rod.Page, selector string, timeout time.Duration) (*rod.Element, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := page.Context(tctx).Element(selector)
	if err != nil {
		return nil, classify(ctx, tctx, fmt.Errorf("wait for %q: %w", selector, err))
	}
	return el, nil
}

// classify turns deadline errors into ErrTimeout while leaving parent
// cancellation (operator interrupt) recognisable as context.Canceled.
func classify(parent, tctx context.Context, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("%w: %w", parent.Err(), err)
	}
	if errors.Is(tctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
