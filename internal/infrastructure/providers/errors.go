package providers

import (
	"errors"
	"fmt"

	"aeobro.backend/internal/domain/entities"
)

// Code is the machine-readable reason a provider identity fetch failed
type Code string

const (
	CodeMissingToken        Code = "MISSING_TOKEN"
	CodeInvalidToken        Code = "INVALID_TOKEN"
	CodeInsufficientScope   Code = "INSUFFICIENT_SCOPE"
	CodeNoUserID            Code = "NO_USER_ID"
	CodeNoPages             Code = "NO_PAGES"
	CodeNoLinkedAccount     Code = "NO_LINKED_ACCOUNT"
	CodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"
	CodeBadResponse         Code = "BAD_RESPONSE"
)

// Actions a client can take for a failed fetch
const (
	ActionReconnect   = "reconnect"
	ActionReconsent   = "reconsent"
	ActionLinkAccount = "link_account"
	ActionRetry       = "retry"
)

var codeActions = map[Code]string{
	CodeMissingToken:        ActionReconnect,
	CodeInvalidToken:        ActionReconnect,
	CodeInsufficientScope:   ActionReconsent,
	CodeNoUserID:            ActionReconnect,
	CodeNoPages:             ActionLinkAccount,
	CodeNoLinkedAccount:     ActionLinkAccount,
	CodeProviderUnavailable: ActionRetry,
	CodeBadResponse:         ActionRetry,
}

// ProviderError wraps provider failures with a normalized code
type ProviderError struct {
	Code       Code
	Provider   entities.Platform
	Message    string
	Action     string
	Retryable  bool
	Underlying error
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.Provider, e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.Provider, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError creates a provider error; action and retryability follow from code
func NewProviderError(provider entities.Platform, code Code, message string, underlying error) *ProviderError {
	return &ProviderError{
		Code:       code,
		Provider:   provider,
		Message:    message,
		Action:     codeActions[code],
		Retryable:  code == CodeProviderUnavailable || code == CodeBadResponse,
		Underlying: underlying,
	}
}

// CodeOf extracts the provider code from err, or "" when err is not a ProviderError
func CodeOf(err error) Code {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// ErrProviderNotFound is returned by the registry for providers without an adapter
var ErrProviderNotFound = errors.New("provider not found")
