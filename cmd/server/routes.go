package main

import (
	"net/http"

	"aeobro.backend/internal/interfaces/http/handlers"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeDeps struct {
	domainHandler   *handlers.DomainVerificationHandler
	bioHandler      *handlers.BioVerificationHandler
	platformHandler *handlers.PlatformHandler
	statusHandler   *handlers.VerificationStatusHandler
	schemaHandler   *handlers.SchemaHandler
	authMiddleware  gin.HandlerFunc
	rateLimit       gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Verification routes (protected)
		verification := v1.Group("/verification")
		verification.Use(d.authMiddleware)
		{
			verification.GET("/status", d.statusHandler.GetStatus)

			domain := verification.Group("/domain")
			{
				domain.GET("", d.domainHandler.ListClaims)
				domain.POST("/start", d.rateLimit, d.domainHandler.Start)
				domain.POST("/check", d.rateLimit, d.domainHandler.Check)
			}

			bio := verification.Group("/bio")
			{
				bio.POST("/generate", d.rateLimit, d.bioHandler.Generate)
				bio.POST("/check", d.rateLimit, d.bioHandler.Check)
			}

			platforms := verification.Group("/platforms")
			{
				platforms.GET("", d.platformHandler.ListAccounts)
				platforms.POST("/:provider/connect", d.rateLimit, d.platformHandler.Connect)
				platforms.DELETE("/:provider", d.platformHandler.Disconnect)
			}
		}

		// Public rendering (no auth)
		public := v1.Group("/public")
		{
			public.GET("/profiles/:userId/schema", d.schemaHandler.GetProfileSchema)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "aeobro-verification", "version": "1.0.0"})
	})
}

func registerMetricsRoute(r *gin.Engine, gatherer prometheus.Gatherer) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
