package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"askgate/internal/envelope"
	"askgate/internal/gateway"
)

// Dispatcher is the gateway surface the HTTP layer depends on.
type Dispatcher interface {
	Handle(ctx context.Context, q gateway.Query) (envelope.Envelope, error)
}

// Handler wires HTTP routes to the gateway dispatcher.
type Handler struct {
	dispatcher Dispatcher
	staticDir  string
}

// NewHandler constructs a Handler instance.
func NewHandler(dispatcher Dispatcher, staticDir string) *Handler {
	return &Handler{dispatcher: dispatcher, staticDir: staticDir}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/ask", h.ask)
	router.GET("/healthz", h.health)
	if h.staticDir != "" {
		indexPath := filepath.Join(h.staticDir, "index.html")
		router.StaticFile("/", indexPath)
		router.StaticFile("/index.html", indexPath)
	}
}

type askRequest struct {
	Query          string `json:"query" binding:"required"`
	ConversationID string `json:"conversation_id" binding:"required"`
}

func (h *Handler) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query and conversation_id are required"})
		return
	}

	env, err := h.dispatcher.Handle(c.Request.Context(), gateway.Query{
		Text:           req.Query,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrEmptyQuery) || errors.Is(err, gateway.ErrEmptyConversationID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch env.Kind {
	case envelope.KindImage:
		c.JSON(http.StatusOK, gin.H{
			"type":   "image",
			"image":  env.Image,
			"answer": "Here is the graph.",
		})
	case envelope.KindTable:
		c.JSON(http.StatusOK, gin.H{
			"type": "table",
			"data": env.Rows,
		})
	default:
		c.JSON(http.StatusOK, gin.H{"answer": env.Body})
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
