// extract video links from the search results
package search

import (
	"context"
	"strings"

	"github.com/go-rod/rod"

	"github.com/Nehilsa2/tiktok_automation/stealth"
)

// HarvestOptions controls link collection
type HarvestOptions struct {
	Max    int
	Scroll stealth.ScrollConfig
}

// FilterLinks keeps absolute https links in document order, drops
// duplicates and stops once max links are kept.
func FilterLinks(hrefs []string, max int) []string {
	seen := make(map[string]bool)
	var links []string

	for _, href := range hrefs {
		if len(links) >= max {
			break
		}
		if !strings.HasPrefix(href, "https://") || seen[href] {
			continue
		}
		seen[href] = true
		links = append(links, href)
	}

	return links
}

// ExtractVideoLinks reads the href attribute of every video anchor on
// the page, in document order.
func ExtractVideoLinks(page *rod.Page) ([]string, error) {
	anchors, err := page.Elements(VideoLinkSelector)
	if err != nil {
		return nil, err
	}

	hrefs := make([]string, 0, len(anchors))
	for _, a := range anchors {
		href, err := a.Attribute("href")
		if err != nil || href == nil {
			continue
		}
		hrefs = append(hrefs, *href)
	}
	return hrefs, nil
}

// Harvest scrolls the results, then collects up to opts.Max unique links
func Harvest(ctx context.Context, page *rod.Page, opts HarvestOptions) ([]string, error) {
	if err := stealth.ScrollFeed(ctx, page, opts.Scroll); err != nil {
		return nil, err
	}

	hrefs, err := ExtractVideoLinks(page.Context(ctx))
	if err != nil {
		return nil, err
	}

	return FilterLinks(hrefs, opts.Max), nil
}
