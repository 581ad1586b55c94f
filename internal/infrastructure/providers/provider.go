package providers

import (
	"context"
	"sort"
	"strings"

	"aeobro.backend/internal/domain/entities"
)

// Identity is the account a provider reports for an access token
type Identity struct {
	ExternalID      string                 `json:"externalId"`
	Handle          string                 `json:"handle,omitempty"`
	URL             string                 `json:"url,omitempty"`
	PlatformContext map[string]string      `json:"platformContext,omitempty"`
	Raw             map[string]interface{} `json:"-"`
}

// Options tunes a fetch. PageID selects the Facebook page whose linked Instagram
// account should be used; the first linked page wins otherwise.
type Options struct {
	PageID string
}

// Adapter resolves the identity behind an OAuth access token
type Adapter interface {
	Platform() entities.Platform
	FetchIdentity(ctx context.Context, accessToken string, opts Options) (*Identity, error)
}

// Registry maps platforms to adapters
type Registry struct {
	adapters map[entities.Platform]Adapter
}

// NewRegistry registers adapters by their platform
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[entities.Platform]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

// Get returns the adapter for p
func (r *Registry) Get(p entities.Platform) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return a, nil
}

// Platforms lists registered platforms in name order
func (r *Registry) Platforms() []entities.Platform {
	out := make([]entities.Platform, 0, len(r.adapters))
	for p := range r.adapters {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func requireToken(p entities.Platform, token string) error {
	if strings.TrimSpace(token) == "" {
		return NewProviderError(p, CodeMissingToken, "access token is required", nil)
	}
	return nil
}
