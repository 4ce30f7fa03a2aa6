package auth

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// TikTok keeps the logged-in session in this cookie
const sessionCookie = "sessionid"

// HasSession reports whether cookies carry a live TikTok session
func HasSession(cookies []*proto.NetworkCookie, now time.Time) bool {
	for _, c := range cookies {
		if c.Name != sessionCookie || c.Value == "" {
			continue
		}
		if !strings.HasSuffix(c.Domain, "tiktok.com") {
			continue
		}
		// Expires is seconds since epoch, -1 for session cookies
		if c.Expires > 0 && time.Unix(int64(c.Expires), 0).Before(now) {
			continue
		}
		return true
	}
	return false
}

// SessionCookiePresent inspects the persistent profile's cookie jar
func SessionCookiePresent(browser *rod.Browser) (bool, error) {
	cookies, err := browser.GetCookies()
	if err != nil {
		return false, err
	}
	return HasSession(cookies, time.Now()), nil
}
