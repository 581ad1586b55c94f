package providers

import (
	"context"
	"net/url"
	"time"

	"aeobro.backend/internal/domain/entities"
)

// InstagramAdapter resolves an Instagram professional account through the Facebook
// pages the token can manage: pages, then the page's linked account, then its fields.
type InstagramAdapter struct {
	api apiClient
}

func NewInstagramAdapter(graphBase string, timeout time.Duration) *InstagramAdapter {
	return &InstagramAdapter{api: newAPIClient(entities.PlatformInstagram, graphBase, timeout)}
}

func (a *InstagramAdapter) Platform() entities.Platform { return entities.PlatformInstagram }

type graphPages struct {
	Data []struct {
		ID                       string `json:"id"`
		Name                     string `json:"name"`
		InstagramBusinessAccount *struct {
			ID string `json:"id"`
		} `json:"instagram_business_account"`
	} `json:"data"`
}

type instagramUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (a *InstagramAdapter) FetchIdentity(ctx context.Context, accessToken string, opts Options) (*Identity, error) {
	if err := requireToken(a.Platform(), accessToken); err != nil {
		return nil, err
	}

	var pages graphPages
	q := url.Values{"fields": {"id,name,instagram_business_account"}}
	if err := a.api.getJSON(ctx, "/me/accounts", q, accessToken, &pages); err != nil {
		return nil, err
	}
	if len(pages.Data) == 0 {
		return nil, NewProviderError(a.Platform(), CodeNoPages, "token manages no facebook pages", nil)
	}

	var pageID, pageName, igID string
	for _, p := range pages.Data {
		if opts.PageID != "" && p.ID != opts.PageID {
			continue
		}
		if p.InstagramBusinessAccount != nil && p.InstagramBusinessAccount.ID != "" {
			pageID, pageName, igID = p.ID, p.Name, p.InstagramBusinessAccount.ID
			break
		}
	}
	if igID == "" {
		return nil, NewProviderError(a.Platform(), CodeNoLinkedAccount, "no page has a linked instagram professional account", nil)
	}

	var user instagramUser
	if err := a.api.getJSON(ctx, "/"+url.PathEscape(igID), url.Values{"fields": {"id,username,name"}}, accessToken, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, NewProviderError(a.Platform(), CodeNoUserID, "instagram account has no id", nil)
	}

	identity := &Identity{
		ExternalID:      user.ID,
		Handle:          user.Username,
		PlatformContext: map[string]string{"pageId": pageID, "pageName": pageName},
		Raw:             toRaw(user),
	}
	if user.Username != "" {
		identity.URL = "https://www.instagram.com/" + user.Username
	}
	return identity, nil
}
