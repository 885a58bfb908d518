package routes

import (
	"mrplan/internal/core/container"
	"mrplan/internal/middleware"
	"mrplan/pkg/roles"
	"mrplan/pkg/security"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)

	public := router.Group("")
	container.CatalogHandler.RegisterRoutes(public)
	container.OrderHandler.RegisterRoutes(public)
}

func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	container.MRPHandler.RegisterReadRoutes(protectedRoutes)

	// Starting, aborting and deleting runs is restricted to planners.
	plannerRoutes := protectedRoutes.Group("")
	plannerRoutes.Use(security.Authorize(roles.Planner))
	container.MRPHandler.RegisterWriteRoutes(plannerRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}
