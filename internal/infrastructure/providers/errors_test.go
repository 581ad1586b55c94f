package providers

import (
	"errors"
	"fmt"
	"testing"

	"aeobro.backend/internal/domain/entities"
	"github.com/stretchr/testify/require"
)

func TestNewProviderError_ActionsAndRetry(t *testing.T) {
	cases := []struct {
		code      Code
		action    string
		retryable bool
	}{
		{CodeMissingToken, ActionReconnect, false},
		{CodeInvalidToken, ActionReconnect, false},
		{CodeInsufficientScope, ActionReconsent, false},
		{CodeNoPages, ActionLinkAccount, false},
		{CodeNoLinkedAccount, ActionLinkAccount, false},
		{CodeProviderUnavailable, ActionRetry, true},
		{CodeBadResponse, ActionRetry, true},
	}
	for _, tc := range cases {
		err := NewProviderError(entities.PlatformX, tc.code, "msg", nil)
		require.Equal(t, tc.action, err.Action, tc.code)
		require.Equal(t, tc.retryable, err.Retryable, tc.code)
	}
}

func TestProviderError_WrapAndCodeOf(t *testing.T) {
	cause := errors.New("boom")
	err := NewProviderError(entities.PlatformYouTube, CodeProviderUnavailable, "unreachable", cause)

	wrapped := fmt.Errorf("connect: %w", err)
	require.Equal(t, CodeProviderUnavailable, CodeOf(wrapped))
	require.ErrorIs(t, wrapped, cause)
	require.Contains(t, err.Error(), "provider youtube [PROVIDER_UNAVAILABLE]: unreachable: boom")

	require.Equal(t, Code(""), CodeOf(cause))
	require.Equal(t, "provider x [NO_USER_ID]: none", NewProviderError(entities.PlatformX, CodeNoUserID, "none", nil).Error())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewXAdapter("http://x", 0), NewYouTubeAdapter("http://yt", 0))

	a, err := r.Get(entities.PlatformX)
	require.NoError(t, err)
	require.Equal(t, entities.PlatformX, a.Platform())

	_, err = r.Get(entities.PlatformGitHub)
	require.ErrorIs(t, err, ErrProviderNotFound)
	require.ElementsMatch(t, []entities.Platform{entities.PlatformX, entities.PlatformYouTube}, r.Platforms())
}
