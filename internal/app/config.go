package app

import (
	"strings"
	"time"

	"github.com/yungbote/coursegen-backend/internal/data/db"
	httpMW "github.com/yungbote/coursegen-backend/internal/http/middleware"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/assembler"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/contentgen"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/video"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/gcp"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
	"github.com/yungbote/coursegen-backend/internal/platform/youtube"
)

const (
	serviceName       = "coursegen-backend"
	defaultJWTSecret  = "defaultsecret"
	defaultAccessTTL  = 24 * time.Hour
	defaultListenPort = "8080"
)

type Config struct {
	Port           string
	Environment    string
	AllowedOrigins []string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	CatalogPath string

	DB        db.Config
	OpenAI    openai.Config
	YouTube   youtube.Config
	Content   contentgen.Config
	Videos    video.Config
	Assembler assembler.Config
	Bucket    gcp.BucketConfig
	Otel      observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	env := envutil.String("APP_ENV", "development")
	cfg := Config{
		Port:           envutil.String("PORT", defaultListenPort),
		Environment:    env,
		AllowedOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", defaultAccessTTL),
		CatalogPath:    envutil.String("COURSEGEN_CATALOG_PATH", ""),
		DB:             db.ConfigFromEnv(),
		OpenAI:         openai.ConfigFromEnv(),
		YouTube:        youtube.ConfigFromEnv(),
		Content:        contentgen.ConfigFromEnv(),
		Videos:         video.ConfigFromEnv(),
		Assembler:      assembler.ConfigFromEnv(),
		Bucket:         gcp.BucketConfigFromEnv(),
		Otel:           observability.OtelConfigFromEnv(serviceName, env, envutil.String("APP_VERSION", "dev")),
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = httpMW.DefaultAllowedOrigins
	}
	if cfg.JWTSecretKey == defaultJWTSecret && log != nil {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
