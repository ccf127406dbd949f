package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schematics-backend/apperrors"
	"schematics-backend/service"
	"schematics-backend/validation"
)

// RegistrationHandler handles HTTP requests for the registration form
type RegistrationHandler struct {
	registrationService *service.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
	}
}

// Register handles POST /api/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	var input validation.RegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.Validation("Request must include JSON data", nil))
		return
	}

	result, err := h.registrationService.Register(c.Request.Context(), service.RegisterRequest{Input: input})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, result.User)
}

// ValidateFieldRequest represents the body of an inline field check
type ValidateFieldRequest struct {
	Field *string `json:"field"`
	Value *string `json:"value"`
}

// ValidateField handles POST /api/validate
func (h *RegistrationHandler) ValidateField(c *gin.Context) {
	var req ValidateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Field == nil || req.Value == nil {
		respondError(c, apperrors.InvalidInput("Missing field or value"))
		return
	}

	result, err := h.registrationService.ValidateField(c.Request.Context(), service.ValidateFieldRequest{
		Field: *req.Field,
		Value: *req.Value,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{"valid": result.Valid}
	if !result.Valid {
		data["error"] = result.Error
	}
	respondData(c, http.StatusOK, data)
}
