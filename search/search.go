// opens the TikTok search results page
package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-rod/rod"

	"github.com/Nehilsa2/tiktok_automation/stealth"
)

const baseURL = "https://www.tiktok.com/search?q="

// VideoLinkSelector matches result anchors that point at a video
const VideoLinkSelector = "a[href*='/video/']"

// ErrResultsTimeout is returned when results never show up
var ErrResultsTimeout = errors.New("search results did not load")

// BuildURL builds the search URL. With encode false the query is passed
// through untouched, matching the old script.
func BuildURL(query string, encode bool) string {
	if encode {
		return baseURL + url.QueryEscape(query)
	}
	return baseURL + query
}

// OpenSearchPage loads searchURL and waits for the first video link.
// Both the network-idle wait and the selector wait use the same timeout.
func OpenSearchPage(ctx context.Context, page *rod.Page, searchURL string, wait time.Duration) error {
	if err := stealth.Navigate(ctx, page, searchURL, wait); err != nil {
		return wrapTimeout(err)
	}

	if _, err := stealth.WaitSelector(ctx, page, VideoLinkSelector, wait); err != nil {
		return wrapTimeout(err)
	}

	return nil
}

func wrapTimeout(err error) error {
	if errors.Is(err, stealth.ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrResultsTimeout, err)
	}
	return err
}
