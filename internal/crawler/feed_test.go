package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Example Engineering Blog</title>
	<item>
		<title>Scaling our ingestion pipeline</title>
		<link>https://blog.example.com/scaling</link>
		<description>&lt;p&gt;How we went from one worker to many.&lt;/p&gt;</description>
		<author>pat@example.com (Pat Kim)</author>
		<category>infrastructure</category>
		<category>go</category>
		<pubDate>Fri, 01 Mar 2024 09:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Untitled draft</title>
		<link></link>
	</item>
	<item>
		<title>Second post</title>
		<link>https://blog.example.com/second</link>
		<description>Short one.</description>
		<pubDate>Sat, 02 Mar 2024 09:00:00 GMT</pubDate>
	</item>
</channel>
</rss>`

func TestFeedCrawler_CrawlArticles(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssBody))
	}))
	defer srv.Close()

	c := NewFeedCrawler("blog.example.com", srv.URL)
	articles, err := c.CrawlArticles(context.Background(), 5)
	assert.NoError(t, err)
	assert.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "Scaling our ingestion pipeline", first.Title)
	assert.Equal(t, "https://blog.example.com/scaling", first.URL)
	assert.Equal(t, "blog.example.com", first.Source)
	assert.Equal(t, "How we went from one worker to many.", first.Summary)
	assert.Equal(t, "infrastructure,go", first.Tags)
	assert.Equal(t, 2024, first.PublishTime.Year())

	// the feed fetch goes through the shared client and UA pool
	assert.Contains(t, userAgent, "Mozilla/5.0")
}

func TestFeedCrawler_LimitAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssBody))
	}))
	defer srv.Close()

	c := NewFeedCrawler("blog.example.com", srv.URL)
	articles, err := c.CrawlArticles(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, articles, 1)

	bad := NewFeedCrawler("down", "http://127.0.0.1:1/feed")
	_, err = bad.CrawlArticles(context.Background(), 1)
	assert.Error(t, err)
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "plain", stripTags("plain"))
	assert.Equal(t, "ab", stripTags("<p>a</p><i>b</i>"))
}
