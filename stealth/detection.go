// Package stealth launches the persistent browser and inspects TikTok
// pages for the states that block automation.
package stealth

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

// PageError represents a detected TikTok blocking state
type PageError struct {
	Type    ErrorType
	Message string
}

func (e *PageError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// ErrorType categorizes TikTok page states
type ErrorType string

const (
	ErrorCaptcha          ErrorType = "CAPTCHA"
	ErrorLoginRequired    ErrorType = "LOGIN_REQUIRED"
	ErrorVideoUnavailable ErrorType = "VIDEO_UNAVAILABLE"
	ErrorNoResults        ErrorType = "NO_RESULTS"
	ErrorTooManyRequests  ErrorType = "TOO_MANY_REQUESTS"
	ErrorPageNotLoaded    ErrorType = "PAGE_NOT_LOADED"
)

var errorMessages = map[ErrorType]string{
	ErrorCaptcha:          "Captcha or puzzle verification shown",
	ErrorLoginRequired:    "TikTok asks to log in",
	ErrorVideoUnavailable: "Video is unavailable or was removed",
	ErrorNoResults:        "Search returned no results",
	ErrorTooManyRequests:  "TikTok reports too many requests",
	ErrorPageNotLoaded:    "Page information could not be read",
}

// Checked in order; the first match wins
var errorOrder = []ErrorType{
	ErrorCaptcha,
	ErrorTooManyRequests,
	ErrorLoginRequired,
	ErrorVideoUnavailable,
	ErrorNoResults,
}

var textPatterns = map[ErrorType][]string{
	ErrorCaptcha: {
		"drag the slider",
		"drag the puzzle",
		"verify to continue",
		"select 2 objects that are the same shape",
	},
	ErrorTooManyRequests: {
		"too many attempts",
		"maximum number of attempts reached",
		"you're visiting too frequently",
	},
	ErrorLoginRequired: {
		"log in to tiktok",
		"log in to follow creators",
	},
	ErrorVideoUnavailable: {
		"video currently unavailable",
		"this video is unavailable",
		"couldn't find this account",
		"video isn't available",
	},
	ErrorNoResults: {
		"no results found",
		"no more results",
	},
}

var urlPatterns = map[ErrorType][]string{
	ErrorCaptcha: {
		"/captcha",
		"verify.tiktok.com",
	},
	ErrorLoginRequired: {
		"/login",
	},
}

// DetectionResult holds the result of a page check
type DetectionResult struct {
	HasError  bool
	Error     *PageError
	PageURL   string
	CheckedAt time.Time
}

// Classify matches a page URL and its lowercased body text against the
// known blocking states. expectLogin suppresses the login-wall match for
// pages that are supposed to be the login form.
func Classify(url, text string, expectLogin bool) *PageError {
	urlLower := strings.ToLower(url)
	textLower := strings.ToLower(text)

	for _, errType := range errorOrder {
		if expectLogin && errType == ErrorLoginRequired {
			continue
		}
		for _, pattern := range urlPatterns[errType] {
			if strings.Contains(urlLower, pattern) {
				return createError(errType)
			}
		}
		for _, pattern := range textPatterns[errType] {
			if strings.Contains(textLower, pattern) {
				return createError(errType)
			}
		}
	}

	return nil
}

// CheckPage reads the page URL and visible text and classifies them.
func CheckPage(page *rod.Page) *DetectionResult {
	result := &DetectionResult{CheckedAt: time.Now()}

	page = page.Timeout(5 * time.Second)
	defer page.CancelTimeout()

	info, err := page.Info()
	if err != nil {
		result.HasError = true
		result.Error = createError(ErrorPageNotLoaded)
		return result
	}
	result.PageURL = info.URL

	text := ""
	if obj, err := page.Eval(`() => document.body ? document.body.innerText : ''`); err == nil {
		text = obj.Value.String()
	}

	if pageErr := Classify(info.URL, text, false); pageErr != nil {
		result.HasError = true
		result.Error = pageErr
	}

	return result
}

func createError(errType ErrorType) *PageError {
	return &PageError{Type: errType, Message: errorMessages[errType]}
}
