package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/pkg/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type ProgressHandler struct {
	log             *logger.Logger
	progressService services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:             log.With("handler", "ProgressHandler"),
		progressService: progressService,
	}
}

// GetCourseProgress lists every course row for the caller, or one row when
// courseId is given.
func (h *ProgressHandler) GetCourseProgress(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("courseId"))
	if raw == "" {
		rows, err := h.progressService.ListCourseProgress(c.Request.Context())
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"progress": rows})
		return
	}
	courseID, ok := parseID(raw)
	if !ok {
		response.RespondAPIError(c, apierr.Validation("invalid_id", "courseId must be a positive integer"))
		return
	}
	row, err := h.progressService.GetCourseProgress(c.Request.Context(), courseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

type recomputeRequest struct {
	CourseID flexID `json:"courseId"`
}

func (h *ProgressHandler) RecomputeCourseProgress(c *gin.Context) {
	var req recomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.CourseID == 0 {
		response.RespondAPIError(c, apierr.Validation("missing_fields", "courseId is required"))
		return
	}
	row, err := h.progressService.RecomputeCourseProgress(c.Request.Context(), uint(req.CourseID))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

func (h *ProgressHandler) GetLessonProgress(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("lessonId"))
	if raw == "" {
		response.RespondAPIError(c, apierr.Validation("missing_fields", "lessonId is required"))
		return
	}
	lessonID, ok := parseID(raw)
	if !ok {
		response.RespondAPIError(c, apierr.Validation("invalid_id", "lessonId must be a positive integer"))
		return
	}
	row, err := h.progressService.GetLessonProgress(c.Request.Context(), lessonID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

type lessonProgressRequest struct {
	LessonID flexID `json:"lessonId"`
	Status   string `json:"status"`
}

func (h *ProgressHandler) MarkLessonProgress(c *gin.Context) {
	var req lessonProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	lp, cp, err := h.progressService.MarkLessonProgress(c.Request.Context(), uint(req.LessonID), strings.TrimSpace(req.Status))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": lp, "course_progress": cp})
}
