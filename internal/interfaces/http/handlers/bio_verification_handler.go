package handlers

import (
	"context"
	"net/http"

	"aeobro.backend/internal/domain/entities"
	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/interfaces/http/middleware"
	"aeobro.backend/internal/interfaces/http/response"
	"aeobro.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type bioVerificationService interface {
	Generate(ctx context.Context, userID uuid.UUID, input *usecases.GenerateBioCodeInput) (*entities.BioChallenge, error)
	Check(ctx context.Context, userID uuid.UUID, input *usecases.CheckBioCodeInput) (*entities.CheckResult, error)
}

// BioVerificationHandler handles code-in-bio endpoints
type BioVerificationHandler struct {
	usecase bioVerificationService
}

// NewBioVerificationHandler creates a new bio verification handler
func NewBioVerificationHandler(usecase bioVerificationService) *BioVerificationHandler {
	return &BioVerificationHandler{usecase: usecase}
}

// Generate issues (or returns the live) bio code
// POST /api/v1/verification/bio/generate
func (h *BioVerificationHandler) Generate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input usecases.GenerateBioCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("platform and profileUrl are required"))
		return
	}
	if input.TTLHours < 0 {
		response.Error(c, domainerrors.BadRequest("ttlHours must be positive"))
		return
	}

	challenge, err := h.usecase.Generate(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, challenge)
}

// Check searches the public profile for the code
// POST /api/v1/verification/bio/check
func (h *BioVerificationHandler) Check(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input usecases.CheckBioCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("platform and profileUrl are required"))
		return
	}

	result, err := h.usecase.Check(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
