package router

import (
	"github.com/labstack/echo/v4"

	"github.com/runlog/runlog-api/internal/handler"
	"github.com/runlog/runlog-api/internal/middleware"
)

// RegisterRoutes wires the full API surface. Registration and login are the
// only anonymous endpoints; everything else sits behind the JWT middleware.
func RegisterRoutes(e *echo.Echo, jwtSecret string, a *handler.AuthHandler, u *handler.UserHandler, r *handler.RunHandler, cm *handler.CommentHandler) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.POST("/register", a.Register)
	api.POST("/login", a.Login)

	auth := api.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret))

	auth.GET("/profile", u.Profile)
	auth.PUT("/profile", u.UpdateProfile)
	auth.DELETE("/profile", u.DeleteProfile)

	auth.GET("/users", u.List)
	auth.GET("/users/:id", u.Detail)
	auth.GET("/users/:id/runs", u.Runs)

	auth.GET("/runs", r.List)
	auth.POST("/runs", r.Create)
	auth.GET("/runs/:id", r.Detail)
	auth.PUT("/runs/:id", r.Update)
	auth.DELETE("/runs/:id", r.Delete)

	auth.GET("/runs/:id/intervals", r.ListIntervals)
	auth.POST("/runs/:id/intervals", r.CreateInterval)
	auth.DELETE("/intervals/:id", r.DeleteInterval)

	auth.GET("/runs/:id/comments", cm.ListForRun)
	auth.POST("/runs/:id/comments", cm.Create)
	auth.GET("/comments/:id", cm.Detail)
	auth.PUT("/comments/:id", cm.Update)
	auth.DELETE("/comments/:id", cm.Delete)
}
