package research

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// Link is one search hit.
type Link struct {
	Title string
	URL   string
}

// SearchClient discovers links for a query. Implementations should honor the
// limit; the researcher enforces its own caps regardless.
type SearchClient interface {
	Search(ctx context.Context, query string, limit int) ([]Link, error)
}

// SerpOptions configure the SerpAPI-backed search client.
type SerpOptions struct {
	Endpoint   string
	Engine     string
	HTTPClient *http.Client
}

// SerpClient implements SearchClient against the SerpAPI JSON endpoint.
type SerpClient struct {
	apiKey string
	opts   SerpOptions
}

// NewSerpClient creates a SerpAPI search client.
func NewSerpClient(apiKey string, optFns ...func(o *SerpOptions)) *SerpClient {
	opts := SerpOptions{
		Endpoint:   "https://serpapi.com/search.json",
		Engine:     "google",
		HTTPClient: http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &SerpClient{apiKey: apiKey, opts: opts}
}

// Search implements SearchClient by querying the organic results of one
// search page.
func (c *SerpClient) Search(ctx context.Context, query string, limit int) ([]Link, error) {
	params := url.Values{}
	params.Set("engine", c.opts.Engine)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var links []Link
	for _, hit := range gjson.GetBytes(body, "organic_results").Array() {
		link := Link{
			Title: hit.Get("title").String(),
			URL:   hit.Get("link").String(),
		}
		if link.URL == "" {
			continue
		}
		links = append(links, link)
		if len(links) >= limit {
			break
		}
	}
	return links, nil
}

// fetchPage retrieves a page and reduces it to plain text, capped at maxBytes
// of raw payload.
func fetchPage(ctx context.Context, client *http.Client, pageURL string, maxBytes int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", "debatemesh-research/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	return htmlToText(string(raw)), nil
}

// htmlToText strips markup without pulling in a scraping dependency: script
// and style blocks are dropped, tags removed, whitespace collapsed. Good
// enough for feeding a summarization prompt, nothing more.
func htmlToText(input string) string {
	var b strings.Builder
	b.Grow(len(input) / 2)

	inTag := false
	skipUntil := "" // closing tag terminating a script/style block

	for i := 0; i < len(input); i++ {
		if skipUntil != "" {
			if hasPrefixFold(input[i:], skipUntil) {
				i += len(skipUntil) - 1
				skipUntil = ""
				inTag = false
			}
			continue
		}
		switch c := input[i]; {
		case c == '<':
			inTag = true
			if hasPrefixFold(input[i:], "<script") {
				skipUntil = "</script>"
			} else if hasPrefixFold(input[i:], "<style") {
				skipUntil = "</style>"
			}
		case c == '>':
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteByte(c)
		}
	}

	return strings.Join(strings.FieldsFunc(b.String(), unicode.IsSpace), " ")
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
