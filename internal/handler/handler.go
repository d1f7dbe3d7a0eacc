// Package handler exposes the digest pipeline over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsdigest/internal/digest"
	"newsdigest/internal/feed"
	"newsdigest/internal/llm"
	"newsdigest/internal/metrics"
	"newsdigest/internal/region"
)

// DigestBuilder is the pipeline entry point the handler depends on.
type DigestBuilder interface {
	Build(ctx context.Context, req digest.Request) (*digest.Result, error)
}

// CompletionRouter is the slice of the provider router used by the
// self-test endpoint.
type CompletionRouter interface {
	Complete(ctx context.Context, p llm.Prompt) (string, string, error)
	Providers() []string
}

type Handler struct {
	catalog *region.Catalog
	digests DigestBuilder
	llm     CompletionRouter
}

func New(catalog *region.Catalog, digests DigestBuilder, router CompletionRouter) *Handler {
	return &Handler{catalog: catalog, digests: digests, llm: router}
}

// Register mounts all routes on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.Use(metricsMiddleware())

	r.GET("/api/health", h.GetHealth)
	r.GET("/api/regions", h.GetRegions)
	r.GET("/api/news", h.GetNews)
	r.GET("/api/llm-test", h.GetLLMTest)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (h *Handler) GetNews(c *gin.Context) {
	req := digest.Request{
		Topic:     strings.TrimSpace(c.Query("topic")),
		Region:    c.Query("region"),
		CustomURL: strings.TrimSpace(c.Query("customUrl")),
	}
	lang := strings.ToLower(c.DefaultQuery("lang", "en"))

	result, err := h.digests.Build(c.Request.Context(), req)
	if err != nil {
		var fetchErr *feed.FetchError
		if errors.As(err, &fetchErr) {
			slog.Error("feed fetch failed", "url", fetchErr.URL, "error", fetchErr.Err)
			c.JSON(http.StatusBadGateway, gin.H{
				"items": []newsItemResponse{},
				"error": fetchErrorMessage(lang),
			})
			return
		}
		slog.Error("digest build failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toDigestResponse(result))
}

// fetchErrorMessage localizes the feed failure text; lang only affects
// what the caller renders, the pipeline itself is language-agnostic.
func fetchErrorMessage(lang string) string {
	if lang == "zh" {
		return "無法取得新聞，請稍後再試"
	}
	return "Failed to fetch news, please try again later"
}

func (h *Handler) GetRegions(c *gin.Context) {
	regions := h.catalog.List()
	out := make([]regionResponse, 0, len(regions))
	for _, r := range regions {
		out = append(out, regionResponse{Code: r.Code, Name: r.Name})
	}
	c.JSON(http.StatusOK, gin.H{"regions": out})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetLLMTest issues a tiny completion through the provider chain and
// reports which provider answered. Useful for checking credentials and
// local-server reachability without pulling a whole feed.
func (h *Handler) GetLLMTest(c *gin.Context) {
	text, provider, err := h.llm.Complete(c.Request.Context(), llm.Prompt{
		User: "Say 'test'",
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "error",
			"message":   err.Error(),
			"providers": h.llm.Providers(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"provider": provider,
		"response": text,
	})
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
