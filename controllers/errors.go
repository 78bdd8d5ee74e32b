package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

var ErrInvalidID = errors.New("invalid id")

// respondServiceError maps domain and storage errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var ie *services.InsufficientIngredientsError
	var se *services.StorageError

	switch {
	case errors.As(err, &ie):
		utils.RespondErrorData(c, http.StatusBadRequest, ie, gin.H{"insufficient": ie.Shortfalls})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		utils.RespondError(c, http.StatusConflict, errors.New("a record with the same unique value already exists"))
	case errors.Is(err, services.ErrNoRecipeDefined),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrPromotionInvalid),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInUse),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrResourceNotFound):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &se):
		utils.ErrorLogger.WithFields(logrus.Fields{"op": se.Op, "path": c.FullPath()}).WithError(se.Err).Error("Storage failure")
		utils.RespondError(c, http.StatusInternalServerError, fmt.Errorf("storage failure during %s", se.Op))
	default:
		utils.ErrorLogger.WithField("path", c.FullPath()).WithError(err).Error("Unhandled error")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// parseID reads a positive integer path parameter, answering 400 otherwise.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidID, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// notFoundOr maps a gorm lookup failure for entity onto the services taxonomy.
func notFoundOr(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, services.ErrNotFound)
	}
	return &services.StorageError{Op: "load " + entity, Err: err}
}

// storage wraps a raw gorm error for respondServiceError.
func storage(op string, err error) error {
	return &services.StorageError{Op: op, Err: err}
}
