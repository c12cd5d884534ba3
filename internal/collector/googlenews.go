package collector

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"MarketMind/internal/model"
)

// DefaultGoogleNewsURL is the RSS search endpoint.
const DefaultGoogleNewsURL = "https://news.google.com/rss/search"

// GoogleNewsFetcher implements NewsFetcher over the Google News RSS feed.
type GoogleNewsFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewGoogleNewsFetcher creates a fetcher with optional proxy support.
func NewGoogleNewsFetcher(baseURL, proxyURL string, timeout time.Duration) *GoogleNewsFetcher {
	if baseURL == "" {
		baseURL = DefaultGoogleNewsURL
	}
	return &GoogleNewsFetcher{
		Client:  newHTTPClient(proxyURL, timeout),
		BaseURL: baseURL,
	}
}

func (f *GoogleNewsFetcher) Name() string { return "google" }

type rssResponse struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title  string `xml:"title"`
	Link   string `xml:"link"`
	Source string `xml:"source"`
}

// FetchNews returns up to limit items in feed order.
func (f *GoogleNewsFetcher) FetchNews(ctx context.Context, symbol string, limit int) ([]model.Headline, error) {
	q := url.Values{}
	q.Set("q", symbol+" stock")
	q.Set("hl", "en-US")
	q.Set("gl", "US")
	q.Set("ceid", "US:en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google news fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google news: status %d", resp.StatusCode)
	}

	var rss rssResponse
	if err := xml.NewDecoder(resp.Body).Decode(&rss); err != nil {
		return nil, fmt.Errorf("google news decode: %w", err)
	}

	out := make([]model.Headline, 0, len(rss.Channel.Items))
	for _, item := range rss.Channel.Items {
		if limit > 0 && len(out) >= limit {
			break
		}
		title, publisher := splitPublisher(cleanText(item.Title))
		if src := cleanText(item.Source); src != "" {
			publisher = src
		}
		out = append(out, model.Headline{Title: title, Link: strings.TrimSpace(item.Link), Publisher: publisher})
	}
	return out, nil
}

// splitPublisher separates the " - Publisher" suffix Google appends to titles.
func splitPublisher(s string) (title, publisher string) {
	if idx := strings.LastIndex(s, " - "); idx > 0 {
		return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+3:])
	}
	return s, ""
}

// cleanText drops any markup and collapses whitespace.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
