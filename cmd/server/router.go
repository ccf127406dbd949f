package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schematics-backend/handlers"
	"schematics-backend/middleware"
)

func newRouter(logger *zap.Logger, preferences *handlers.PreferenceHandler, registration *handlers.RegistrationHandler) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger.Named("http")),
		middleware.Recovery(logger),
	)

	handlers.RegisterRoutes(r, preferences, registration)
	return r
}
