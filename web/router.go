package main

import (
	"net/http"

	"checadas.com/ponches/config"
	"checadas.com/ponches/web/handlers"
	"checadas.com/ponches/web/middlewares"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newRouter(cfg config.Config, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.ContextLogger(logger))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	ponches := handlers.NewPonchesHandler(cfg)
	protected := r.Group("/api/v1")
	protected.Use(middlewares.Authentication(cfg.Web.JWTSecret))
	{
		protected.GET("/whoami", handlers.WhoAmI)
		protected.POST("/ponches", ponches.Report)
		protected.POST("/ponches/summary", ponches.Summary)
	}

	return r
}
