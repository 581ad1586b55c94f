package handlers

import (
	"context"
	"net/http"

	domainerrors "aeobro.backend/internal/domain/errors"
	"aeobro.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const jsonLDContentType = "application/ld+json; charset=utf-8"

type schemaExportService interface {
	Export(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// SchemaHandler serves public JSON-LD documents
type SchemaHandler struct {
	usecase schemaExportService
}

// NewSchemaHandler creates a new schema handler
func NewSchemaHandler(usecase schemaExportService) *SchemaHandler {
	return &SchemaHandler{usecase: usecase}
}

// GetProfileSchema returns the gated schema.org document of a profile
// GET /api/v1/public/profiles/:userId/schema
func (h *SchemaHandler) GetProfileSchema(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	doc, err := h.usecase.Export(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, jsonLDContentType, doc)
}
