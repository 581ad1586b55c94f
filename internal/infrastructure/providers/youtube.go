package providers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"aeobro.backend/internal/domain/entities"
)

// YouTubeAdapter resolves the channel owned by the token's Google account
type YouTubeAdapter struct {
	api apiClient
}

func NewYouTubeAdapter(base string, timeout time.Duration) *YouTubeAdapter {
	return &YouTubeAdapter{api: newAPIClient(entities.PlatformYouTube, base, timeout)}
}

func (a *YouTubeAdapter) Platform() entities.Platform { return entities.PlatformYouTube }

type youtubeChannels struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title     string `json:"title"`
			CustomURL string `json:"customUrl"`
		} `json:"snippet"`
	} `json:"items"`
}

func (a *YouTubeAdapter) FetchIdentity(ctx context.Context, accessToken string, _ Options) (*Identity, error) {
	if err := requireToken(a.Platform(), accessToken); err != nil {
		return nil, err
	}

	var resp youtubeChannels
	q := url.Values{"part": {"snippet"}, "mine": {"true"}}
	if err := a.api.getJSON(ctx, "/channels", q, accessToken, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 || resp.Items[0].ID == "" {
		return nil, NewProviderError(a.Platform(), CodeNoUserID, "account has no youtube channel", nil)
	}

	ch := resp.Items[0]
	identity := &Identity{
		ExternalID:      ch.ID,
		Handle:          ch.Snippet.CustomURL,
		URL:             "https://www.youtube.com/channel/" + ch.ID,
		PlatformContext: map[string]string{"channelTitle": ch.Snippet.Title},
		Raw:             toRaw(ch),
	}
	if strings.HasPrefix(ch.Snippet.CustomURL, "@") {
		identity.URL = "https://www.youtube.com/" + ch.Snippet.CustomURL
	}
	return identity, nil
}
