package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/codingislub/chat/internal/chatbot"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type handlers struct {
	bot    *chatbot.Bot
	logger *zap.Logger
}

func newHandlers(bot *chatbot.Bot, logger *zap.Logger) *handlers {
	return &handlers{bot: bot, logger: logger}
}

// askRequest is the POST /api/v1/ask body.
type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// askResponse carries both the rendered answer and the structured result.
type askResponse struct {
	Question string      `json:"question"`
	Intent   string      `json:"intent"`
	Answer   string      `json:"answer"`
	Result   interface{} `json:"result"`
}

func (h *handlers) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	intent, result := h.bot.Ask(c.Request.Context(), question)
	c.JSON(http.StatusOK, askResponse{
		Question: question,
		Intent:   string(intent.Kind),
		Answer:   h.bot.FormatResult(result),
		Result:   result,
	})
}

func (h *handlers) vendors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"vendors": h.bot.Store().Vendors(),
		"count":   h.bot.Store().Count(),
	})
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "invoice-chat",
		"invoices": h.bot.Store().Count(),
		"time":     time.Now().Format(time.RFC3339),
	})
}
