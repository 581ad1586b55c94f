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

type domainVerificationService interface {
	Start(ctx context.Context, userID uuid.UUID, domain string) (*entities.DomainChallenge, error)
	Check(ctx context.Context, userID uuid.UUID, domain string) (*entities.CheckResult, error)
	ListClaims(ctx context.Context, userID uuid.UUID) ([]*entities.DomainClaim, error)
}

// DomainRequest is the body of the domain start and check endpoints
type DomainRequest struct {
	Domain string `json:"domain" binding:"required"`
}

// DomainVerificationHandler handles DNS TXT verification endpoints
type DomainVerificationHandler struct {
	usecase domainVerificationService
}

// NewDomainVerificationHandler creates a new domain verification handler
func NewDomainVerificationHandler(usecase domainVerificationService) *DomainVerificationHandler {
	return &DomainVerificationHandler{usecase: usecase}
}

// Start issues the TXT record the caller must publish
// POST /api/v1/verification/domain/start
func (h *DomainVerificationHandler) Start(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input DomainRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("domain is required"))
		return
	}

	challenge, err := h.usecase.Start(c.Request.Context(), userID, input.Domain)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, challenge)
}

// Check looks up the TXT record. A missing record is a 200 with verified=false.
// POST /api/v1/verification/domain/check
func (h *DomainVerificationHandler) Check(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input DomainRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("domain is required"))
		return
	}

	result, err := h.usecase.Check(c.Request.Context(), userID, input.Domain)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ListClaims lists the caller's domain claims
// GET /api/v1/verification/domain
func (h *DomainVerificationHandler) ListClaims(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	claims, err := h.usecase.ListClaims(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"claims": claims})
}
