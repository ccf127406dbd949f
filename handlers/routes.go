package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, preferences *PreferenceHandler, registration *RegistrationHandler) {
	r.GET("/health", Health)

	api := r.Group("/api")
	{
		// Preference endpoints
		api.GET("/preferences/:userId", preferences.GetPreferences)
		api.POST("/preferences/:userId", preferences.CreatePreferences)
		api.PUT("/preferences/:userId", preferences.ReplacePreferences)
		api.PATCH("/preferences/:userId", preferences.PatchPreferences)
		api.DELETE("/preferences/:userId", preferences.DeletePreferences)

		// Registration endpoints
		api.POST("/register", registration.Register)
		api.POST("/validate", registration.ValidateField)
	}

	r.NoRoute(NotFound)
}
