package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schematics-backend/apperrors"
)

// internalMessage replaces the message of unexpected errors so driver or
// filesystem details never reach the client
const internalMessage = "internal server error"

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError writes the error envelope for err. Errors that are not
// *apperrors.Error are treated as internal.
func respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	body := gin.H{
		"success": false,
		"error":   kind,
		"message": internalMessage,
	}

	if kind == apperrors.KindInternal {
		c.Error(err)
	} else if appErr, ok := apperrors.As(err); ok {
		body["message"] = appErr.Message
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
	}

	c.AbortWithStatusJSON(apperrors.HTTPStatus(kind), body)
}

// NotFound handles unmatched routes
func NotFound(c *gin.Context) {
	respondError(c, apperrors.NotFound("endpoint not found"))
}

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
