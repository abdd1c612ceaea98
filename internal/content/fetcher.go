package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// userAgent identifies the fetcher to origin servers.
const userAgent = "sift-api/1.0"

// reachabilityTimeout bounds the pre-check probe.
const reachabilityTimeout = 5 * time.Second

// ErrNoContent is returned when a page parses but yields no article text.
var ErrNoContent = errors.New("no extractable content")

// Fetcher downloads pages and extracts their readable text.
type Fetcher struct {
	client *http.Client
}

// NewFetcher wires an HTTP client; a nil client gets a 20 second timeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Fetcher{client: client}
}

// ArticleText fetches the URL and returns its readable text: paragraph
// content with script, style, and chrome elements stripped.
func (f *Fetcher) ArticleText(ctx context.Context, url string) (string, error) {
	doc, err := f.fetchDocument(ctx, url)
	if err != nil {
		return "", err
	}

	doc.Find("script, style, nav, header, footer, aside, noscript").Remove()

	var parts []string
	doc.Find("article p, main p").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})

	// Pages without semantic article markup fall back to all paragraphs.
	if len(parts) == 0 {
		doc.Find("p").Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				parts = append(parts, text)
			}
		})
	}

	text := strings.Join(parts, "\n\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrNoContent, url)
	}

	return text, nil
}

// IsReachable probes the URL with a short GET and reports whether it
// responds with a usable page. Redirects are followed; a 200 carrying a
// soft 404 body still counts as unreachable.
func (f *Fetcher) IsReachable(ctx context.Context, url string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, reachabilityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return false
	}
	if strings.Contains(strings.ToLower(doc.Text()), "page not found") {
		return false
	}

	return true
}

func (f *Fetcher) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}
