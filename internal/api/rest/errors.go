package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/twelled/spv-lifecycle/internal/api/shared/errors"
	"github.com/twelled/spv-lifecycle/internal/domain"
	"github.com/twelled/spv-lifecycle/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...).Body())
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, apierrors.NewNotFoundError(message, details...).Body())
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, details ...string) {
	c.JSON(http.StatusUnprocessableEntity, apierrors.NewValidationError(details...).Body())
}

// respondInternalError responds with an internal server error, logging the
// underlying cause without leaking it to the client
func respondInternalError(c *gin.Context, err error, message string) {
	logger.ErrorCtx(c.Request.Context(), err,
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, apierrors.NewInternalError(message).Body())
}

// respondDomainError maps a domain error onto the HTTP surface:
// 401 unauthenticated, 403 forbidden, 404 unknown SPV, 422 validation
// (missing fields, empty signature, unknown status), 500 persistence.
func respondDomainError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	var ue *domain.UploadError

	switch {
	case errors.As(err, &ve):
		respondValidationError(c, ve.Error())
	case errors.Is(err, domain.ErrEmptySignature):
		respondValidationError(c, domain.ErrEmptySignature.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		respondValidationError(c, err.Error())
	case errors.Is(err, domain.ErrSPVNotFound):
		respondNotFound(c, "SPV not found")
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError("Authentication required").Body())
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, apierrors.NewForbiddenError("Insufficient role").Body())
	case errors.As(err, &ue):
		logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusBadGateway, apierrors.NewUploadError("Document upload failed").Body())
	case domain.IsPersistenceError(err):
		logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, apierrors.NewDatabaseError("Persistence failed").Body())
	default:
		respondInternalError(c, err, "Internal server error")
	}
}
