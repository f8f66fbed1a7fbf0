package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type ChatHandler struct {
	log         *logger.Logger
	chatService services.ChatService
	metrics     *observability.Metrics
}

func NewChatHandler(log *logger.Logger, chatService services.ChatService, metrics *observability.Metrics) *ChatHandler {
	return &ChatHandler{
		log:         log.With("handler", "ChatHandler"),
		chatService: chatService,
		metrics:     metrics,
	}
}

type chatRequest struct {
	Messages []services.ChatTurn `json:"messages"`
}

// SendChat relays the reply as a chunked plain-text body. Headers are only
// committed with the first fragment so earlier failures can still be
// reported as a JSON error.
func (h *ChatHandler) SendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	started := false
	begin := func() {
		if started {
			return
		}
		started = true
		hdr := c.Writer.Header()
		hdr.Set("Content-Type", "text/plain; charset=utf-8")
		hdr.Set("Cache-Control", "no-cache")
		hdr.Set("X-Content-Type-Options", "nosniff")
		hdr.Set("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)
		c.Writer.WriteHeaderNow()
	}

	res, err := h.chatService.SendChatTurn(c.Request.Context(), req.Messages, func(fragment string) error {
		begin()
		if _, werr := c.Writer.WriteString(fragment); werr != nil {
			return werr
		}
		c.Writer.Flush()
		return nil
	})

	replyChars := 0
	if res != nil && res.Reply != nil {
		replyChars = len(res.Reply.Text)
	}
	if err != nil {
		if !started {
			h.metrics.ObserveChatTurn(observability.ChatOutcomeFailed, 0)
			response.RespondAPIError(c, err)
			return
		}
		// Headers are gone; the client sees the stream end early.
		h.metrics.ObserveChatTurn(observability.ChatOutcomeIncomplete, replyChars)
		_ = c.Error(err)
		return
	}
	begin()
	h.metrics.ObserveChatTurn(observability.ChatOutcomeOK, replyChars)
}

type replyRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Reply(c *gin.Context) {
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	text, err := h.chatService.GenerateSingleReply(c.Request.Context(), req.Message)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"response": text})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	msgs, err := h.chatService.ListMessages(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs})
}
