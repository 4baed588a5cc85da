// Package api exposes search and chat over HTTP.
package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"price-scout/models"
	"price-scout/utils"
)

// RouterOptions configure the engine.
type RouterOptions struct {
	CORSOrigins []string
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   *utils.Logger
}

// NewRouter wires middleware and routes onto a new gin engine.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(
		RequestID(),
		RequestLogger(opts.Logger),
		Recovery(opts.Logger, gin.H{"error": msgInternalError}),
		cors.New(corsConfig(opts.CORSOrigins)),
	)

	router.GET("/health", h.Health)
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	search := router.Group("/api/search")
	search.Use(Recovery(opts.Logger, models.SearchResponse{Results: []*models.Listing{}, Error: msgInternalError}))
	search.GET("", h.Search)
	search.GET("/export", h.Export)
	search.GET("/insights", h.Insights)

	chat := router.Group("/api/chat")
	chat.Use(Recovery(opts.Logger, models.ChatResponse{Response: msgChatInternalFail}))
	chat.POST("", h.Chat)
	chat.POST("/context", h.ChatContext)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewServer wraps the router in an http.Server.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
