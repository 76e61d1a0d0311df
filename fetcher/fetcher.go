package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/thisismy-go/thisismy/resolver"
)

// Fetcher returns best-effort raw text for a resource identifier.
type Fetcher interface {
	Fetch(ctx context.Context, identifier string) ([]byte, error)
}

// Client fetches local files and remote URLs. Local reads go through a
// modtime-invalidated content cache; URL fetches always hit the network so
// the watch loop observes fresh content on every poll.
type Client struct {
	cwd   string
	http  *http.Client
	cache *contentCache
}

// New creates a Client resolving relative paths against cwd.
func New(cwd string) *Client {
	return &Client{
		cwd:   cwd,
		http:  &http.Client{Timeout: 30 * time.Second},
		cache: newContentCache(),
	}
}

// Fetch dispatches on the identifier form.
func (c *Client) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	if resolver.IsURL(identifier) {
		return c.fetchURL(ctx, identifier)
	}
	return c.readFile(identifier)
}

func (c *Client) readFile(path string) ([]byte, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(c.cwd, filepath.FromSlash(path))
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if content, ok := c.cache.get(full, info); ok {
		return content, nil
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	c.cache.set(full, info, content)

	return content, nil
}

func (c *Client) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "thisismy")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		if text, ok := extractText(body); ok {
			return text, nil
		}
	}

	return body, nil
}

// extractText strips markup from an HTML document, keeping readable text.
func extractText(body []byte) ([]byte, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, false
	}

	doc.Find("script, style, noscript").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	return []byte(strings.TrimSpace(text)), true
}
