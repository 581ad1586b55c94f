package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "aeobro.backend/internal/domain/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	return c, w
}

func TestSuccess(t *testing.T) {
	c, w := newContext()
	Success(c, http.StatusOK, gin.H{"ok": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestError_AppError(t *testing.T) {
	c, w := newContext()
	Error(c, domainerrors.NotFound("missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), domainerrors.CodeNotFound)
	assert.Contains(t, w.Body.String(), "missing")
	assert.NotContains(t, w.Body.String(), "action")
}

func TestError_WrappedAppErrorWithAction(t *testing.T) {
	c, w := newContext()
	appErr := domainerrors.NewAppError(http.StatusUnprocessableEntity, "INSUFFICIENT_SCOPE", "grant the page scope", nil).
		WithAction("reconsent")
	Error(c, fmt.Errorf("connect: %w", appErr))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"reconsent"`)
}

func TestError_SentinelMapping(t *testing.T) {
	cases := map[error]int{
		domainerrors.ErrNotFound:            http.StatusNotFound,
		domainerrors.ErrConflict:            http.StatusConflict,
		domainerrors.ErrInvalidInput:        http.StatusBadRequest,
		domainerrors.ErrUnsupportedPlatform: http.StatusBadRequest,
	}
	for sentinel, status := range cases {
		c, w := newContext()
		Error(c, fmt.Errorf("wrapped: %w", sentinel))
		assert.Equal(t, status, w.Code, sentinel.Error())
	}
}

func TestError_GenericError(t *testing.T) {
	c, w := newContext()
	Error(c, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), domainerrors.CodeInternalError)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestErrorWithError(t *testing.T) {
	c, w := newContext()
	ErrorWithError(c, http.StatusTooManyRequests, domainerrors.CodeRateLimited, "slow down")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "slow down")
}
