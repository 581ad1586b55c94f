package dns

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	dnsTypeTXT    = 16
	rcodeNoError  = 0
	rcodeNXDomain = 3
	maxDoHBody    = 64 << 10
)

// DoHResolver queries a DNS-over-HTTPS endpoint speaking the JSON API
// (application/dns-json) offered by Cloudflare and Google.
type DoHResolver struct {
	endpoint  string
	client    *http.Client
	userAgent string
}

// NewDoHResolver creates a resolver for endpoint with a per-query timeout
func NewDoHResolver(endpoint, userAgent string, timeout time.Duration) *DoHResolver {
	return &DoHResolver{
		endpoint:  endpoint,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

type dohAnswer struct {
	Name string `json:"name"`
	Type int    `json:"type"`
	Data string `json:"data"`
}

type dohResponse struct {
	Status int         `json:"Status"`
	Answer []dohAnswer `json:"Answer"`
}

// LookupTXT resolves host through the DoH endpoint
func (r *DoHResolver) LookupTXT(ctx context.Context, host string) ([]string, error) {
	u, err := url.Parse(r.endpoint)
	if err != nil {
		return nil, fmt.Errorf("doh endpoint: %w", err)
	}
	q := u.Query()
	q.Set("name", host)
	q.Set("type", "TXT")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/dns-json")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doh query %s: %w", host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("doh query %s: status %d", host, resp.StatusCode)
	}

	var body dohResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDoHBody)).Decode(&body); err != nil {
		return nil, fmt.Errorf("doh decode %s: %w", host, err)
	}

	switch body.Status {
	case rcodeNoError:
	case rcodeNXDomain:
		return nil, ErrNoRecords
	default:
		return nil, fmt.Errorf("doh query %s: rcode %d", host, body.Status)
	}

	var records []string
	for _, a := range body.Answer {
		if a.Type != dnsTypeTXT {
			continue
		}
		records = append(records, joinTXTData(a.Data))
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// joinTXTData turns the presentation form `"part one" "part two"` into the record
// value. Unquoted data is returned as is.
func joinTXTData(data string) string {
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, `"`) {
		return data
	}

	var (
		b       strings.Builder
		inQuote bool
		escaped bool
	)
	for _, r := range data {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\' && inQuote:
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
			b.WriteRune(r)
		}
	}
	return b.String()
}
