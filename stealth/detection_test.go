package stealth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		text string
		want ErrorType
	}{
		{"captcha url", "https://www.tiktok.com/captcha?x=1", "", ErrorCaptcha},
		{"captcha text", "https://www.tiktok.com/search?q=dance", "Drag the slider to fit the puzzle", ErrorCaptcha},
		{"login wall", "https://www.tiktok.com/login?redirect=x", "", ErrorLoginRequired},
		{"removed video", "https://www.tiktok.com/@a/video/1", "This video is unavailable", ErrorVideoUnavailable},
		{"empty search", "https://www.tiktok.com/search?q=zzz", "No results found", ErrorNoResults},
		{"throttled", "https://www.tiktok.com/search?q=x", "Maximum number of attempts reached. Try again later.", ErrorTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.url, tt.text, false)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Type)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestClassifyHealthyPage(t *testing.T) {
	assert.Nil(t, Classify("https://www.tiktok.com/@a/video/1", "For You Following LIVE", false))
}

func TestClassifyCaptchaBeatsLoginWall(t *testing.T) {
	got := Classify("https://www.tiktok.com/login", "Verify to continue", false)
	require.NotNil(t, got)
	assert.Equal(t, ErrorCaptcha, got.Type)
}

func TestClassifyExpectedLoginPage(t *testing.T) {
	assert.Nil(t, Classify("https://www.tiktok.com/login", "Log in to TikTok", true))
}

func TestPageErrorString(t *testing.T) {
	err := createError(ErrorCaptcha)
	assert.Equal(t, "[CAPTCHA] Captcha or puzzle verification shown", err.Error())
}
