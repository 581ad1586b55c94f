package providers

import (
	"context"
	"net/url"
	"time"

	"aeobro.backend/internal/domain/entities"
)

// XAdapter resolves the user behind an X (Twitter) OAuth 2.0 user token
type XAdapter struct {
	api apiClient
}

func NewXAdapter(base string, timeout time.Duration) *XAdapter {
	return &XAdapter{api: newAPIClient(entities.PlatformX, base, timeout)}
}

func (a *XAdapter) Platform() entities.Platform { return entities.PlatformX }

type xUsersMe struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
	} `json:"data"`
}

func (a *XAdapter) FetchIdentity(ctx context.Context, accessToken string, _ Options) (*Identity, error) {
	if err := requireToken(a.Platform(), accessToken); err != nil {
		return nil, err
	}

	var me xUsersMe
	if err := a.api.getJSON(ctx, "/users/me", url.Values{"user.fields": {"username,name"}}, accessToken, &me); err != nil {
		return nil, err
	}
	if me.Data.ID == "" {
		return nil, NewProviderError(a.Platform(), CodeNoUserID, "response has no user id", nil)
	}

	identity := &Identity{
		ExternalID:      me.Data.ID,
		Handle:          me.Data.Username,
		PlatformContext: map[string]string{"name": me.Data.Name},
		Raw:             toRaw(me.Data),
	}
	if me.Data.Username != "" {
		identity.URL = "https://x.com/" + me.Data.Username
	}
	return identity, nil
}
