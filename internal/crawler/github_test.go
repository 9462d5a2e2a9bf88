package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"

	"techdaily/helpers"
)

const trendingHTML = `
<html><body>
<article class="Box-row">
	<h2 class="h3"><a href="/golang/go"> golang / go </a></h2>
	<p class="col-9">The Go programming language</p>
	<a href="/golang/go/stargazers">123,456</a>
	<span itemprop="programmingLanguage">Go</span>
</article>
<article class="Box-row">
	<h2 class="h3"><a href="/rust-lang/rust"> rust-lang / rust </a></h2>
	<a href="/rust-lang/rust/stargazers">98,765</a>
</article>
<article class="Box-row">
	<h2 class="h3"><a href=""></a></h2>
</article>
</body></html>`

func newTrendingCrawler(url string) *GitHubTrendingCrawler {
	return NewGitHubTrendingCrawler(url, newMockCacheService(), helpers.NoDelay{})
}

func TestGitHubTrendingCrawler_ParseRepo(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trendingHTML))
	assert.NoError(t, err)

	c := newTrendingCrawler("https://github.com/trending")
	rows := doc.Find("article.Box-row")

	first := c.parseRepo(rows.Eq(0), "daily")
	assert.NotNil(t, first)
	assert.Equal(t, "GitHub Trending (daily): golang / go", first.Title)
	assert.Equal(t, "https://github.com/golang/go", first.URL)
	assert.Equal(t, "The Go programming language", first.Summary)
	assert.Equal(t, "golang", first.Author)
	assert.Equal(t, 123456, first.Views)
	assert.Contains(t, first.Tags, "Go")

	// Missing description falls back to a default instead of dropping the row
	second := c.parseRepo(rows.Eq(1), "daily")
	assert.NotNil(t, second)
	assert.Equal(t, "No description provided", second.Summary)
	assert.NotContains(t, second.Tags, ",Go")

	// Rows without a usable link are skipped entirely
	third := c.parseRepo(rows.Eq(2), "daily")
	assert.Nil(t, third)
}

func TestGitHubTrendingCrawler_CrawlSplitsRanges(t *testing.T) {
	var ranges []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ranges = append(ranges, r.URL.Query().Get("since"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(trendingHTML))
	}))
	defer srv.Close()

	c := newTrendingCrawler(srv.URL)
	articles, err := c.CrawlArticles(context.Background(), 4)
	assert.NoError(t, err)
	assert.Equal(t, []string{"daily", "weekly"}, ranges)
	assert.Len(t, articles, 4)
}

func TestGitHubTrendingCrawler_RateLimitBlocksSubsequentRuns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "600")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cacheSvc := newMockCacheService()
	c := NewGitHubTrendingCrawler(srv.URL, cacheSvc, helpers.NoDelay{})

	_, err := c.CrawlArticles(context.Background(), 2)
	assert.Error(t, err)

	// The block key was set; the next run is refused without hitting upstream
	_, err = cacheSvc.Get("github_trending_rate_limited")
	assert.NoError(t, err)

	_, err = c.CrawlArticles(context.Background(), 2)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGitHubTrendingCrawler_ConcurrentRunsKeepURLsWellFormed(t *testing.T) {
	var mu sync.Mutex
	var badQueries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		since := r.URL.Query().Get("since")
		if since != "daily" && since != "weekly" {
			mu.Lock()
			badQueries = append(badQueries, r.URL.String())
			mu.Unlock()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(trendingHTML))
	}))
	defer srv.Close()

	c := newTrendingCrawler(srv.URL)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			articles, err := c.CrawlArticles(context.Background(), 4)
			assert.NoError(t, err)
			assert.Len(t, articles, 4)
		}()
	}
	wg.Wait()

	assert.Empty(t, badQueries, "overlapping runs must not corrupt the fetch URL")
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 123456, parseCount("123,456"))
	assert.Equal(t, 1200, parseCount("1.2k"))
	assert.Equal(t, 0, parseCount(""))
	assert.Equal(t, 0, parseCount("n/a"))
}
