package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nurpe/contract-payments/internal/http/middleware"
	"github.com/nurpe/contract-payments/internal/http/response"
	"github.com/nurpe/contract-payments/internal/metrics"
)

func NewRouter(handler *Handler, profileAuth, adminAuth gin.HandlerFunc, environment string, allowOrigins []string) (*gin.Engine, error) {
	if !strings.EqualFold(environment, "development") && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := registerDefaultValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(handler.log),
		middleware.Logger(handler.log),
		metrics.Middleware(),
		cors.New(corsConfig(allowOrigins)),
	)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	handler.Register(router, profileAuth, adminAuth)

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, fmt.Sprintf("Requested route (%s) not found", c.Request.URL.RequestURI()))
	})
	return router, nil
}

func corsConfig(allowOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.ProfileHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(allowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	return cfg
}
