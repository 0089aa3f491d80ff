// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	userGroup := e.Group("/users")
	{
		userGroup.POST("/register", r.accountHandler.Register)
		userGroup.POST("/login", r.accountHandler.Login)
		userGroup.PUT("/update", r.accountHandler.Update)
		userGroup.PUT("/delete", r.accountHandler.Delete)
	}

	// Routes that require a valid bearer token
	profileGroup := e.Group("/users")
	profileGroup.Use(r.authMiddleware.Authenticate)
	{
		profileGroup.GET("/profile", r.accountHandler.Profile)
	}
}
