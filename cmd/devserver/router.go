package main

import (
	"net/http"
	"time"

	"github.com/abhijeet-0019/abhijeet-blog-repo/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func newRouter(h *handler.Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Allow"},
		MaxAge:        12 * time.Hour,
	}

	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}

	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	posts := h.GinHandler()
	router.Any("/posts", posts)
	router.Any("/posts/:id", posts)

	return router
}
