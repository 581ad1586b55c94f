package providers

import (
	"context"
	"time"

	"aeobro.backend/internal/domain/entities"
)

// LinkedInAdapter resolves the member behind a Sign In with LinkedIn (OpenID) token
type LinkedInAdapter struct {
	api apiClient
}

func NewLinkedInAdapter(base string, timeout time.Duration) *LinkedInAdapter {
	return &LinkedInAdapter{api: newAPIClient(entities.PlatformLinkedIn, base, timeout)}
}

func (a *LinkedInAdapter) Platform() entities.Platform { return entities.PlatformLinkedIn }

type linkedinUserInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *LinkedInAdapter) FetchIdentity(ctx context.Context, accessToken string, _ Options) (*Identity, error) {
	if err := requireToken(a.Platform(), accessToken); err != nil {
		return nil, err
	}

	var info linkedinUserInfo
	if err := a.api.getJSON(ctx, "/userinfo", nil, accessToken, &info); err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, NewProviderError(a.Platform(), CodeNoUserID, "response has no subject", nil)
	}

	// The OpenID profile carries no public URL, so none is recorded.
	return &Identity{
		ExternalID:      info.Sub,
		Handle:          info.Name,
		PlatformContext: map[string]string{"name": info.Name},
		Raw:             toRaw(info),
	}, nil
}
