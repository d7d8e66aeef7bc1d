// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Stvolll/scooter-wraps-backend/internal/services"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

// serviceErrorResponse maps service error kinds onto HTTP responses so
// callers can tell "nothing happened" apart from "partially happened".
func serviceErrorResponse(c *gin.Context, err error) {
	var validationErr *services.FileValidationError
	var storageErr *services.StorageWriteError
	var reconcileErr *services.ReconciliationError

	switch {
	case errors.Is(err, services.ErrDesignNotFound):
		utils.NotFoundResponse(c, "Design")
	case errors.Is(err, services.ErrDealNotFound):
		utils.NotFoundResponse(c, "Deal")
	case errors.Is(err, services.ErrSlugTaken):
		utils.ConflictResponse(c, "SLUG_TAKEN", err.Error())
	case errors.Is(err, services.ErrUnknownStatus):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidTransition):
		utils.ConflictResponse(c, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, services.ErrAlreadySettled):
		utils.ConflictResponse(c, "ALREADY_SETTLED", err.Error())
	case errors.Is(err, services.ErrOversold):
		utils.ConflictResponse(c, "OVERSOLD", err.Error())
	case errors.Is(err, services.ErrEmptyBatch):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrMisconfiguredStorage):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", err.Error(), nil)
	case errors.As(err, &validationErr):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", validationErr.Error(), gin.H{
			"filename": validationErr.Filename,
			"reason":   validationErr.Reason,
		})
	case errors.As(err, &storageErr):
		utils.ErrorResponse(c, http.StatusBadGateway, "STORAGE_WRITE_FAILED", storageErr.Error(), gin.H{
			"filename":      storageErr.Filename,
			"orphaned_keys": storageErr.OrphanedKeys,
		})
	case errors.As(err, &reconcileErr):
		utils.ErrorResponse(c, http.StatusInternalServerError, "RECONCILIATION_FAILED", reconcileErr.Error(), gin.H{
			"orphaned_keys": reconcileErr.OrphanedKeys,
		})
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
