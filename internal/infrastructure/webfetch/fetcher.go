package webfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aeobro.backend/internal/domain/entities"
)

const maxBodyBytes = 2 << 20

// Kind names a fetch strategy
type Kind string

const (
	KindProfileAPI Kind = "profile_api"
	KindAboutPage  Kind = "about_page"
	KindPageText   Kind = "page_text"
)

// Target is one public resource that may carry a bio code
type Target struct {
	Kind Kind
	URL  string
}

// ErrUnexpectedStatus wraps non-2xx responses
var ErrUnexpectedStatus = errors.New("unexpected status")

// Fetcher retrieves public profile text with a bounded timeout and an identifying
// User-Agent.
type Fetcher struct {
	client        *http.Client
	userAgent     string
	githubAPIBase string
}

// NewFetcher creates a fetcher. timeout bounds each request including redirects.
func NewFetcher(timeout time.Duration, userAgent, githubAPIBase string) *Fetcher {
	return &Fetcher{
		client:        &http.Client{Timeout: timeout},
		userAgent:     userAgent,
		githubAPIBase: strings.TrimRight(githubAPIBase, "/"),
	}
}

// Targets lists the resources to search for platform, most specific first. The raw
// page is always the last resort.
func (f *Fetcher) Targets(platform entities.Platform, profile *url.URL) []Target {
	page := profile.String()
	var targets []Target

	switch platform {
	case entities.PlatformGitHub:
		if login := firstPathSegment(profile); login != "" {
			targets = append(targets, Target{Kind: KindProfileAPI, URL: f.githubAPIBase + "/users/" + url.PathEscape(login)})
		}
	case entities.PlatformYouTube:
		about := *profile
		about.RawQuery = ""
		about.Fragment = ""
		if !strings.HasSuffix(strings.TrimRight(about.Path, "/"), "/about") {
			about.Path = strings.TrimRight(about.Path, "/") + "/about"
			targets = append(targets, Target{Kind: KindAboutPage, URL: about.String()})
		}
	}

	return append(targets, Target{Kind: KindPageText, URL: page})
}

// Fetch returns the searchable text of t
func (f *Fetcher) Fetch(ctx context.Context, t Target) (string, error) {
	body, err := f.get(ctx, t.URL, t.Kind == KindProfileAPI)
	if err != nil {
		return "", err
	}

	if t.Kind == KindProfileAPI {
		var profile struct {
			Bio  string `json:"bio"`
			Blog string `json:"blog"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(body, &profile); err != nil {
			return "", fmt.Errorf("decode profile api: %w", err)
		}
		return strings.Join([]string{profile.Bio, profile.Name, profile.Blog}, "\n"), nil
	}

	return html.UnescapeString(string(body)), nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string, wantJSON bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	if wantJSON {
		req.Header.Set("Accept", "application/json")
	} else {
		req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, req.URL.Host)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func firstPathSegment(u *url.URL) string {
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}
