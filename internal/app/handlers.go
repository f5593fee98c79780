package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http"
	httpH "github.com/yungbote/coursegen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursegen-backend/internal/http/middleware"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	Course     *httpH.CourseHandler
	Generation *httpH.GenerationHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(log, services.Auth),
		Course:     httpH.NewCourseHandler(log, services.Course, services.Banner),
		Generation: httpH.NewGenerationHandler(log, services.Generation),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		CourseHandler:     handlers.Course,
		GenerationHandler: handlers.Generation,
	})
}
