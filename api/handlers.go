package api

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"price-scout/models"
	"price-scout/services"
	"price-scout/storage"
	"price-scout/utils"
)

// Response bodies fixed by the public API.
const (
	msgQueryRequired    = "Query is required"
	msgInternalError    = "Internal Server Error"
	msgNoProduct        = "No product selected."
	msgChatInternalFail = "Internal server error."
)

var filenameUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Searcher runs a cache-first product search.
type Searcher interface {
	Search(ctx context.Context, query string) (*models.AggregatedResult, error)
}

// Answerer answers a question about a product.
type Answerer interface {
	Answer(ctx context.Context, product, message string) string
}

// Handler serves the HTTP API.
type Handler struct {
	search   Searcher
	chat     Answerer
	insights *services.InsightService
	export   storage.ListingWriter
	logger   *utils.Logger
}

func NewHandler(search Searcher, chat Answerer, insights *services.InsightService, export storage.ListingWriter, logger *utils.Logger) *Handler {
	return &Handler{
		search:   search,
		chat:     chat,
		insights: insights,
		export:   export,
		logger:   logger,
	}
}

// Search handles GET /api/search?q=.
func (h *Handler) Search(c *gin.Context) {
	result, ok := h.runSearch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.SearchResponse{
		Results: nonNil(result.Results),
		Query:   result.Query,
	})
}

// Export handles GET /api/search/export?q= and streams the results as CSV.
func (h *Handler) Export(c *gin.Context) {
	result, ok := h.runSearch(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, exportName(result.Query)))
	c.Status(http.StatusOK)
	if err := h.export.Write(c.Writer, result.Results); err != nil {
		_ = c.Error(err)
	}
}

// Insights handles GET /api/search/insights?q=.
func (h *Handler) Insights(c *gin.Context) {
	result, ok := h.runSearch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.insights.Generate(result))
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("[chat] unreadable body: %v", err)
	}
	if strings.TrimSpace(req.Product) == "" {
		c.JSON(http.StatusBadRequest, models.ChatResponse{Response: msgNoProduct})
		return
	}

	reply := h.chat.Answer(c.Request.Context(), req.Product, req.Message)
	c.JSON(http.StatusOK, models.ChatResponse{Response: reply, Product: req.Product})
}

// ChatContext handles POST /api/chat/context. Context is built per chat
// request, so there is nothing to store.
func (h *Handler) ChatContext(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// runSearch validates q and performs the search, writing the error response
// itself when it returns false.
func (h *Handler) runSearch(c *gin.Context) (*models.AggregatedResult, bool) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgQueryRequired})
		return nil, false
	}

	result, err := h.search.Search(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.SearchResponse{
			Results: []*models.Listing{},
			Error:   msgInternalError,
		})
		return nil, false
	}
	return result, true
}

func nonNil(listings []*models.Listing) []*models.Listing {
	if listings == nil {
		return []*models.Listing{}
	}
	return listings
}

func exportName(query string) string {
	name := strings.Trim(filenameUnsafe.ReplaceAllString(strings.ToLower(query), "-"), "-")
	if name == "" {
		return "listings"
	}
	return name
}
