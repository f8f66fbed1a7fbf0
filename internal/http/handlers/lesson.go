package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type LessonHandler struct {
	log           *logger.Logger
	lessonService services.LessonService
}

func NewLessonHandler(log *logger.Logger, lessonService services.LessonService) *LessonHandler {
	return &LessonHandler{
		log:           log.With("handler", "LessonHandler"),
		lessonService: lessonService,
	}
}

func (h *LessonHandler) ListCourseLessons(c *gin.Context) {
	courseID, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	lessons, err := h.lessonService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}

func (h *LessonHandler) GetLesson(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	lesson, err := h.lessonService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

type createLessonRequest struct {
	Title      string          `json:"title"`
	Type       string          `json:"type"`
	Content    json.RawMessage `json:"content"`
	OrderIndex *int            `json:"order_index"`
}

func (h *LessonHandler) CreateLesson(c *gin.Context) {
	courseID, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req createLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lesson, err := h.lessonService.Create(c.Request.Context(), courseID, services.CreateLessonInput{
		Title:      req.Title,
		Type:       req.Type,
		Content:    req.Content,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (h *LessonHandler) CheckAnswer(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.lessonService.CheckAnswer(c.Request.Context(), id, req.Answer)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}
