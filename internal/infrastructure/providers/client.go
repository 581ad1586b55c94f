package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aeobro.backend/internal/domain/entities"
)

const maxResponseBytes = 1 << 20

// apiClient performs authenticated JSON GETs and maps HTTP failures onto codes
type apiClient struct {
	provider entities.Platform
	base     string
	http     *http.Client
}

func newAPIClient(provider entities.Platform, base string, timeout time.Duration) apiClient {
	return apiClient{
		provider: provider,
		base:     strings.TrimRight(base, "/"),
		http:     &http.Client{Timeout: timeout},
	}
}

// graphError is the error envelope used by the Facebook Graph API
type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (c apiClient) getJSON(ctx context.Context, path string, query url.Values, token string, out interface{}) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return NewProviderError(c.provider, CodeBadResponse, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return NewProviderError(c.provider, CodeProviderUnavailable, "provider unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return NewProviderError(c.provider, CodeProviderUnavailable, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return NewProviderError(c.provider, CodeBadResponse, "decode response", err)
	}
	return nil
}

func (c apiClient) statusError(status int, body []byte) error {
	underlying := fmt.Errorf("status %d", status)

	var ge graphError
	if json.Unmarshal(body, &ge) == nil && ge.Error.Code != 0 {
		underlying = errors.New(ge.Error.Message)
		switch {
		case ge.Error.Code == 190 || ge.Error.Code == 102:
			return NewProviderError(c.provider, CodeInvalidToken, "access token rejected", underlying)
		case ge.Error.Code == 10 || (ge.Error.Code >= 200 && ge.Error.Code < 300):
			return NewProviderError(c.provider, CodeInsufficientScope, "permission not granted", underlying)
		}
	}

	switch {
	case status == http.StatusUnauthorized:
		return NewProviderError(c.provider, CodeInvalidToken, "access token rejected", underlying)
	case status == http.StatusForbidden:
		return NewProviderError(c.provider, CodeInsufficientScope, "permission not granted", underlying)
	case status == http.StatusTooManyRequests || status >= 500:
		return NewProviderError(c.provider, CodeProviderUnavailable, "provider unavailable", underlying)
	default:
		return NewProviderError(c.provider, CodeBadResponse, "unexpected provider response", underlying)
	}
}

func toRaw(v interface{}) map[string]interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var raw map[string]interface{}
	_ = json.Unmarshal(b, &raw)
	return raw
}
