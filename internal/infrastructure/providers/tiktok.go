package providers

import (
	"context"
	"errors"
	"net/url"
	"time"

	"aeobro.backend/internal/domain/entities"
)

// TikTokAdapter resolves the user behind a TikTok Login Kit token
type TikTokAdapter struct {
	api apiClient
}

func NewTikTokAdapter(base string, timeout time.Duration) *TikTokAdapter {
	return &TikTokAdapter{api: newAPIClient(entities.PlatformTikTok, base, timeout)}
}

func (a *TikTokAdapter) Platform() entities.Platform { return entities.PlatformTikTok }

type tiktokUserInfo struct {
	Data struct {
		User struct {
			OpenID          string `json:"open_id"`
			UnionID         string `json:"union_id"`
			Username        string `json:"username"`
			DisplayName     string `json:"display_name"`
			ProfileDeepLink string `json:"profile_deep_link"`
		} `json:"user"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *TikTokAdapter) FetchIdentity(ctx context.Context, accessToken string, _ Options) (*Identity, error) {
	if err := requireToken(a.Platform(), accessToken); err != nil {
		return nil, err
	}

	var resp tiktokUserInfo
	q := url.Values{"fields": {"open_id,union_id,username,display_name,profile_deep_link"}}
	if err := a.api.getJSON(ctx, "/user/info/", q, accessToken, &resp); err != nil {
		return nil, err
	}

	switch resp.Error.Code {
	case "", "ok":
	case "access_token_invalid":
		return nil, NewProviderError(a.Platform(), CodeInvalidToken, "access token rejected", errors.New(resp.Error.Message))
	case "scope_not_authorized":
		return nil, NewProviderError(a.Platform(), CodeInsufficientScope, "permission not granted", errors.New(resp.Error.Message))
	default:
		return nil, NewProviderError(a.Platform(), CodeBadResponse, "unexpected provider response", errors.New(resp.Error.Code))
	}

	u := resp.Data.User
	if u.OpenID == "" {
		return nil, NewProviderError(a.Platform(), CodeNoUserID, "response has no open_id", nil)
	}

	identity := &Identity{
		ExternalID:      u.OpenID,
		Handle:          u.Username,
		URL:             u.ProfileDeepLink,
		PlatformContext: map[string]string{"displayName": u.DisplayName},
		Raw:             toRaw(u),
	}
	if identity.URL == "" && u.Username != "" {
		identity.URL = "https://www.tiktok.com/@" + u.Username
	}
	return identity, nil
}
