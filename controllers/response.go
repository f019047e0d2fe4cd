package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vmotion/repairshop-api/config"
	"github.com/vmotion/repairshop-api/logging"
	"github.com/vmotion/repairshop-api/middleware"
	"github.com/vmotion/repairshop-api/models"
	"github.com/vmotion/repairshop-api/services"
	"github.com/vmotion/repairshop-api/utils"
	"gorm.io/gorm"
)

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondFailure(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// statusForKind maps a domain error kind to its HTTP status
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindFinalized, models.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// respondError writes the envelope for err. Unexpected errors are logged and
// reported with a generic message.
func respondError(c *gin.Context, err error) {
	var domainErr *models.DomainError
	if errors.As(err, &domainErr) {
		respondFailure(c, statusForKind(domainErr.Kind), domainErr.Code, domainErr.Message)
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		respondFailure(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
		return
	}

	_ = c.Error(err)
	logging.L().Errorw("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	respondFailure(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
}

// currentUser loads the authenticated user row. The row, not the token, is
// authoritative for role and shop.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondFailure(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return nil, false
	}

	var user models.User
	if err := config.GetDB().WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, models.ErrUserNotFound)
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	return &user, true
}

// currentIdentity resolves the caller into the identity used by access checks
func currentIdentity(c *gin.Context) (services.Identity, bool) {
	user, ok := currentUser(c)
	if !ok {
		return services.Identity{}, false
	}
	return identityFor(user), true
}

func identityFor(user *models.User) services.Identity {
	return services.Identity{
		UserID: user.ID,
		Role:   user.Role,
		ShopID: user.ShopID,
	}
}

// isUniqueViolation detects duplicate key errors on postgres and sqlite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}
