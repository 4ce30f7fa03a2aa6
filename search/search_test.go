package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://www.tiktok.com/search?q=dance", BuildURL("dance", true))
	assert.Equal(t, "https://www.tiktok.com/search?q=street+dance%26more", BuildURL("street dance&more", true))
	assert.Equal(t, "https://www.tiktok.com/search?q=street dance&more", BuildURL("street dance&more", false))
}

func TestFilterLinksKeepsOrderAndDropsDuplicates(t *testing.T) {
	hrefs := []string{
		"https://www.tiktok.com/@a/video/1",
		"/@b/video/2",
		"https://www.tiktok.com/@a/video/1",
		"http://www.tiktok.com/@c/video/3",
		"https://www.tiktok.com/@d/video/4",
		"",
		"https://www.tiktok.com/@e/video/5",
	}

	got := FilterLinks(hrefs, 10)
	assert.Equal(t, []string{
		"https://www.tiktok.com/@a/video/1",
		"https://www.tiktok.com/@d/video/4",
		"https://www.tiktok.com/@e/video/5",
	}, got)
}

func TestFilterLinksCap(t *testing.T) {
	var hrefs []string
	for i := 0; i < 50; i++ {
		hrefs = append(hrefs, fmt.Sprintf("https://www.tiktok.com/@u/video/%d", i))
	}

	for _, max := range []int{1, 7, 20, 50, 80} {
		got := FilterLinks(hrefs, max)
		want := max
		if want > len(hrefs) {
			want = len(hrefs)
		}
		assert.Len(t, got, want)
		assert.Equal(t, hrefs[:want], got)
	}
}

func TestFilterLinksUnique(t *testing.T) {
	hrefs := []string{"https://x/video/1", "https://x/video/1", "https://x/video/2", "https://x/video/2"}
	got := FilterLinks(hrefs, 20)

	seen := map[string]bool{}
	for _, l := range got {
		assert.False(t, seen[l], "duplicate %s", l)
		seen[l] = true
	}
	assert.Len(t, got, 2)
}

func TestFilterLinksEmpty(t *testing.T) {
	assert.Empty(t, FilterLinks(nil, 20))
	assert.Empty(t, FilterLinks([]string{"/relative/video/1"}, 20))
}
