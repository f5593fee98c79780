package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/http/response"
	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

const maxBannerBytes = 10 << 20

type CourseHandler struct {
	log     *logger.Logger
	courses services.CourseService
	banners services.BannerService
}

func NewCourseHandler(log *logger.Logger, courses services.CourseService, banners services.BannerService) *CourseHandler {
	return &CourseHandler{log: log.With("handler", "CourseHandler"), courses: courses, banners: banners}
}

// GET /api/content/course/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// GET /api/content/user-courses/:userId
func (h *CourseHandler) ListUserCourses(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	courses, err := h.courses.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/content/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	q := repos.CourseQuery{
		Level:        strings.TrimSpace(c.Query("level")),
		Category:     strings.TrimSpace(c.Query("category")),
		LearningGoal: strings.TrimSpace(c.Query("learningGoal")),
		Search:       c.Query("search"),
		Sort:         c.Query("sort"),
		Order:        strings.ToLower(c.Query("order")),
		Page:         intQuery(c, "page"),
		Limit:        intQuery(c, "limit"),
	}
	if raw := strings.TrimSpace(c.Query("excludeOwner")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondFromError(c, h.log, fmt.Errorf("%w: excludeOwner must be a uuid", apperr.ErrInvalidArgument))
			return
		}
		q.ExcludeOwnerID = id
	}
	page, err := h.courses.List(c.Request.Context(), q)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, page)
}

// PUT /api/content/course/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	var req services.CourseUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, err := h.courses.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// DELETE /api/content/course/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/content/course/:id/banner
//
// Accepts a multipart "banner" file or a JSON body {"bannerUrl": "..."}.
func (h *CourseHandler) UploadBanner(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	ctx := c.Request.Context()

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req struct {
			BannerURL string `json:"bannerUrl"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		course, err := h.banners.SetURL(ctx, id, req.BannerURL)
		if err != nil {
			response.RespondFromError(c, h.log, err)
			return
		}
		response.RespondOK(c, gin.H{"course": course})
		return
	}

	fh, err := c.FormFile("banner")
	if err != nil {
		response.RespondFromError(c, h.log, &apperr.ValidationError{Missing: []string{"banner"}})
		return
	}
	if fh.Size > maxBannerBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "banner_too_large", fmt.Errorf("banner must be at most %d bytes", maxBannerBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, maxBannerBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, err := h.banners.Upload(ctx, id, raw)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// GET /api/content/course/:id/banner.png
func (h *CourseHandler) GetBanner(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	buf, err := h.banners.Render(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
