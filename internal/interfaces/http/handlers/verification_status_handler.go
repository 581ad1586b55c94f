package handlers

import (
	"context"
	"net/http"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/interfaces/http/middleware"
	"aeobro.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type verificationStatusService interface {
	GetStatus(ctx context.Context, userID uuid.UUID) (*entities.VerificationView, error)
}

// VerificationStatusHandler serves the caller's verification state
type VerificationStatusHandler struct {
	usecase verificationStatusService
}

// NewVerificationStatusHandler creates a new verification status handler
func NewVerificationStatusHandler(usecase verificationStatusService) *VerificationStatusHandler {
	return &VerificationStatusHandler{usecase: usecase}
}

// GetStatus returns the verification tier, timestamps and verified platforms
// GET /api/v1/verification/status
func (h *VerificationStatusHandler) GetStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	view, err := h.usecase.GetStatus(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}
