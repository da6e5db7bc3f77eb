package pagefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

const (
	// MaxSnippetLength caps the snippet in runes.
	MaxSnippetLength = 6000

	DefaultTimeout = 15 * time.Second

	DefaultUserAgent = "SellBoostBot/1.0 (+https://github.com/BerylCAtieno/sellboost-agent; fetch product detail for copywriting)"

	acceptHTML   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	maxBodyBytes = 2 << 20
	maxRedirects = 5
)

var errUnsafeRedirect = errors.New("redirect target rejected")

// Reducer fetches a page and reduces it to bounded plain text.
type Reducer struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	filter    func(string) (string, bool)
	log       zerolog.Logger
}

// Option customises a Reducer.
type Option func(*Reducer)

// WithHTTPClient overrides the HTTP client. Its CheckRedirect is replaced.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Reducer) {
		if hc != nil {
			clone := *hc
			r.client = &clone
		}
	}
}

// WithUserAgent overrides the descriptive client identifier.
func WithUserAgent(ua string) Option {
	return func(r *Reducer) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithTimeout sets the whole-request timeout. It takes precedence over the
// timeout of a client passed to WithHTTPClient, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(r *Reducer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithURLFilter replaces the check applied to redirect targets. Defaults to SafeURL.
func WithURLFilter(filter func(string) (string, bool)) Option {
	return func(r *Reducer) {
		if filter != nil {
			r.filter = filter
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Reducer) {
		r.log = log
	}
}

// NewReducer builds a Reducer with redirect re-validation. Without WithTimeout
// the client's own timeout is kept, or DefaultTimeout when it has none.
func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{
		client:    &http.Client{},
		userAgent: DefaultUserAgent,
		filter:    SafeURL,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	switch {
	case r.timeout > 0:
		r.client.Timeout = r.timeout
	case r.client.Timeout == 0:
		r.client.Timeout = DefaultTimeout
	}
	r.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if _, ok := r.filter(req.URL.String()); !ok {
			return errUnsafeRedirect
		}
		return nil
	}
	return r
}

// Reduce fetches pageURL and returns its visible text. The caller must have
// validated pageURL with SafeURL. It never returns an error: any failure
// yields ("", false) and the pipeline continues without the snippet.
func (r *Reducer) Reduce(ctx context.Context, pageURL string) (string, bool) {
	text, err := r.fetch(ctx, pageURL)
	if err != nil {
		r.log.Debug().Err(err).Str("url", pageURL).Msg("page snippet unavailable")
		return "", false
	}
	if text == "" {
		r.log.Debug().Str("url", pageURL).Msg("page snippet empty")
		return "", false
	}
	return text, true
}

func (r *Reducer) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", acceptHTML)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(strings.ToLower(ct), "text/html") {
		return "", fmt.Errorf("unsupported content type %q", ct)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}
	return VisibleText(doc), nil
}

// VisibleText drops script and style elements, joins the remaining text
// nodes with single spaces and truncates to MaxSnippetLength runes.
func VisibleText(doc *goquery.Document) string {
	doc.Find("script, style").Remove()

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return truncateRunes(text, MaxSnippetLength)
}

func truncateRunes(s string, max int) string {
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
