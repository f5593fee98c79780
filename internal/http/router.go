package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursegen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursegen-backend/internal/http/middleware"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	CourseHandler     *httpH.CourseHandler
	GenerationHandler *httpH.GenerationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Auth (public)
	if cfg.AuthHandler != nil {
		api.POST("/auth/signup", cfg.AuthHandler.Signup)
		api.POST("/auth/signin", cfg.AuthHandler.Signin)
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		requireAuth = cfg.AuthMiddleware.RequireAuth()
	}

	content := api.Group("/content")
	if cfg.CourseHandler != nil {
		content.GET("/courses", cfg.CourseHandler.ListCourses)
		content.GET("/course/:id", cfg.CourseHandler.GetCourse)
		content.GET("/course/:id/banner.png", cfg.CourseHandler.GetBanner)
		content.GET("/user-courses/:userId", cfg.CourseHandler.ListUserCourses)

		content.PUT("/course/:id", requireAuth, cfg.CourseHandler.UpdateCourse)
		content.DELETE("/course/:id", requireAuth, cfg.CourseHandler.DeleteCourse)
		content.POST("/course/:id/banner", requireAuth, cfg.CourseHandler.UploadBanner)
	}
	if cfg.GenerationHandler != nil {
		content.POST("/generate-course", requireAuth, cfg.GenerationHandler.GenerateCourse)

		ai := api.Group("/ai", requireAuth)
		ai.POST("/generate-quiz", cfg.GenerationHandler.GenerateQuiz)
		ai.POST("/generate-additional-content", cfg.GenerationHandler.GenerateAdditionalContent)
	}

	return r
}
