package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"schematics-backend/apperrors"
	"schematics-backend/service"
	"schematics-backend/validation"
)

// MaxPreferenceBodyBytes bounds a preferences request body
const MaxPreferenceBodyBytes = 64 << 10

// PreferenceHandler handles HTTP requests for user preferences
type PreferenceHandler struct {
	preferenceService *service.PreferenceService
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(preferenceService *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
	}
}

// GetPreferences handles GET /api/preferences/:userId
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	result, err := h.preferenceService.GetPreferences(c.Request.Context(), service.GetPreferencesRequest{
		UserID: c.Param("userId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, result.Preferences)
}

// CreatePreferences handles POST /api/preferences/:userId
func (h *PreferenceHandler) CreatePreferences(c *gin.Context) {
	req, ok := h.bindUpdate(c)
	if !ok {
		return
	}

	result, err := h.preferenceService.CreatePreferences(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, result.Preferences)
}

// ReplacePreferences handles PUT /api/preferences/:userId
func (h *PreferenceHandler) ReplacePreferences(c *gin.Context) {
	req, ok := h.bindUpdate(c)
	if !ok {
		return
	}

	result, err := h.preferenceService.ReplacePreferences(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, result.Preferences)
}

// PatchPreferences handles PATCH /api/preferences/:userId
func (h *PreferenceHandler) PatchPreferences(c *gin.Context) {
	req, ok := h.bindUpdate(c)
	if !ok {
		return
	}

	result, err := h.preferenceService.PatchPreferences(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, result.Preferences)
}

// DeletePreferences handles DELETE /api/preferences/:userId
func (h *PreferenceHandler) DeletePreferences(c *gin.Context) {
	result, err := h.preferenceService.DeletePreferences(c.Request.Context(), service.DeletePreferencesRequest{
		UserID: c.Param("userId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, result.Preferences)
}

// bindUpdate reads and validates the request body. It writes the error
// response itself and reports false when the request cannot proceed.
func (h *PreferenceHandler) bindUpdate(c *gin.Context) (service.UpdatePreferencesRequest, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxPreferenceBodyBytes))
	if err != nil {
		respondError(c, apperrors.Validation("request body is too large or unreadable", nil))
		return service.UpdatePreferencesRequest{}, false
	}

	patch, err := validation.DecodePreferencePatch(body)
	if err != nil {
		respondError(c, err)
		return service.UpdatePreferencesRequest{}, false
	}

	return service.UpdatePreferencesRequest{
		UserID: c.Param("userId"),
		Patch:  patch,
	}, true
}
