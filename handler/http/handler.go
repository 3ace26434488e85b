// Package http exposes the question answering pipeline over HTTP.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"adminrag/src/core/rag"
	"adminrag/src/storage/postgres/documentctrl"
)

// AnswerService is the pipeline operation the web layer consumes.
type AnswerService interface {
	Answer(ctx context.Context, question string, k int) (*rag.Answer, error)
}

type Handler struct {
	answerService AnswerService
	index         rag.VectorIndex
	catalog       *documentctrl.DocumentService // may be nil
}

func NewHandler(answerService AnswerService, index rag.VectorIndex, catalog *documentctrl.DocumentService) *Handler {
	return &Handler{
		answerService: answerService,
		index:         index,
		catalog:       catalog,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/question/", h.PostQuestion)
	api.GET("/documents", h.ListDocuments)
	api.GET("/health", h.CheckHealth)
}

func sendError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// CheckHealth reports service liveness and the size of the index.
func (h *Handler) CheckHealth(c *gin.Context) {
	count, err := h.index.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "degraded",
			"message": "index injoignable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"chunks": count,
	})
}
