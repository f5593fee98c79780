package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type GenerationHandler struct {
	log        *logger.Logger
	generation services.CourseGenerationService
}

func NewGenerationHandler(log *logger.Logger, generation services.CourseGenerationService) *GenerationHandler {
	return &GenerationHandler{log: log.With("handler", "GenerationHandler"), generation: generation}
}

// POST /api/content/generate-course
func (h *GenerationHandler) GenerateCourse(c *gin.Context) {
	var req services.GenerateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.generation.Generate(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondCreated(c, out)
}

// POST /api/ai/generate-additional-content
func (h *GenerationHandler) GenerateAdditionalContent(c *gin.Context) {
	var req services.AdditionalContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.generation.GenerateAdditionalContent(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/ai/generate-quiz
func (h *GenerationHandler) GenerateQuiz(c *gin.Context) {
	response.RespondOK(c, h.generation.GenerateQuiz(c.Request.Context()))
}
