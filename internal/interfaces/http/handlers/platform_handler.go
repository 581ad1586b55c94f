package handlers

import (
	"context"
	"net/http"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/infrastructure/providers"
	"aeobro.backend/internal/interfaces/http/middleware"
	"aeobro.backend/internal/interfaces/http/response"
	"aeobro.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type platformConnectionService interface {
	Connect(ctx context.Context, userID uuid.UUID, provider string, input *entities.ConnectPlatformInput) (*usecases.PlatformConnectResult, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]*entities.PlatformAccount, error)
	Disconnect(ctx context.Context, userID uuid.UUID, provider string) error
}

// PlatformHandler handles OAuth platform account endpoints
type PlatformHandler struct {
	usecase platformConnectionService
}

// NewPlatformHandler creates a new platform handler
func NewPlatformHandler(usecase platformConnectionService) *PlatformHandler {
	return &PlatformHandler{usecase: usecase}
}

// Connect binds the identity behind an OAuth access token
// POST /api/v1/verification/platforms/:provider/connect
func (h *PlatformHandler) Connect(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.ConnectPlatformInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.NewAppError(http.StatusBadRequest, string(providers.CodeMissingToken), "accessToken is required", domainerrors.ErrInvalidInput).
			WithAction(providers.ActionReconnect))
		return
	}

	result, err := h.usecase.Connect(c.Request.Context(), userID, c.Param("provider"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ListAccounts lists connected platform accounts
// GET /api/v1/verification/platforms
func (h *PlatformHandler) ListAccounts(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	accounts, err := h.usecase.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"accounts": accounts})
}

// Disconnect removes a platform account
// DELETE /api/v1/verification/platforms/:provider
func (h *PlatformHandler) Disconnect(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	if err := h.usecase.Disconnect(c.Request.Context(), userID, c.Param("provider")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Platform disconnected"})
}
