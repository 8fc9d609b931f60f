package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/tkoster/linkmark/internal/logger"
)

const (
	userAgent     = "linkmark/1.0"
	maxPageBytes  = 2 << 20
	maxImageBytes = 8 << 20
)

// ErrNoMetadata means the page was reachable but offered nothing usable.
var ErrNoMetadata = errors.New("no link metadata available")

// Metadata holds what a page offers for building a preview.
type Metadata struct {
	Title    string
	ImageURL string // og:image or twitter:image, absolute
	IconURL  string // <link rel=icon>, absolute
}

// Fetcher retrieves link metadata and preview images with a bounded timeout.
type Fetcher struct {
	client *http.Client
	log    logger.Logger
}

// NewFetcher creates a Fetcher whose requests are bounded by timeout.
func NewFetcher(timeout time.Duration, log logger.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		log: log,
	}
}

// Metadata fetches the page at rawURL and extracts title, preview image and
// icon references. Relative references are resolved against the final
// (post-redirect) request URL.
func (f *Fetcher) Metadata(ctx context.Context, rawURL string) (Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Metadata{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Metadata{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Metadata{}, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return Metadata{}, err
	}

	base := resp.Request.URL
	meta := extractMetadata(doc, base)
	if meta.Title == "" && meta.ImageURL == "" && meta.IconURL == "" {
		return Metadata{}, ErrNoMetadata
	}
	return meta, nil
}

// Title fetches only the page title. Used for filling in dropped bookmarks.
func (f *Fetcher) Title(ctx context.Context, rawURL string) (string, error) {
	meta, err := f.Metadata(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if meta.Title == "" {
		return "", ErrNoMetadata
	}
	return meta.Title, nil
}

// Image downloads a preview or icon image.
func (f *Fetcher) Image(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch image %s: status %d", rawURL, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

func extractMetadata(doc *html.Node, base *url.URL) Metadata {
	var meta Metadata
	var title string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "title":
				if title == "" {
					title = strings.TrimSpace(textContent(n))
				}
			case "meta":
				prop := strings.ToLower(attr(n, "property"))
				if prop == "" {
					prop = strings.ToLower(attr(n, "name"))
				}
				content := attr(n, "content")
				switch prop {
				case "og:title":
					if meta.Title == "" {
						meta.Title = strings.TrimSpace(content)
					}
				case "og:image", "twitter:image":
					if meta.ImageURL == "" {
						meta.ImageURL = resolveRef(base, content)
					}
				}
			case "link":
				rel := strings.ToLower(attr(n, "rel"))
				if strings.Contains(rel, "icon") && meta.IconURL == "" {
					meta.IconURL = resolveRef(base, attr(n, "href"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if meta.Title == "" {
		meta.Title = title
	}
	return meta
}

func resolveRef(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u.String()
}

// textContent returns the text content of a node.
func textContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return text.String()
}

// attr returns the value of an attribute, case-insensitive.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
