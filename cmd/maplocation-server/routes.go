package main

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-maplocation"
)

// ginMux adapts a gin route group to geocoding.Mux. The component handlers
// enforce their own method rules, so every method is routed to them.
type ginMux struct {
	routes gin.IRoutes
}

func (m ginMux) Handle(pattern string, handler http.Handler) {
	m.routes.Any(pattern, gin.WrapH(handler))
}

func (a *App) registerRoutes(r *gin.Engine) {
	base := r.Group(a.basePath())
	base.GET("/health", a.health)
	base.StaticFS(assetsPath, http.FS(maplocation.RuntimeAssetsFS()))
	base.GET("/", a.showForm)
	base.POST("/", a.submitForm)

	api := base.Group("")
	api.Use(cors.New(corsConfig(a.cfg.Server.AllowedOrigins)))
	api.POST("/api/validate", a.validate)
	api.OPTIONS("/api/validate", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	if _, err := a.component.RegisterRoutes(ginMux{routes: api}, ""); err != nil {
		a.logger.Error("geocoding routes not registered", "error", err)
	}
}

func (a *App) basePath() string {
	base := strings.TrimRight(strings.TrimSpace(a.cfg.Server.BasePath), "/")
	if base == "" {
		return "/"
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return base
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": a.geocoder.Name(),
	})
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	var allowed []string
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowed
	return cfg
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
