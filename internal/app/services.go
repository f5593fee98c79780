package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/assembler"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/catalog"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/contentgen"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/planner"
	"github.com/yungbote/coursegen-backend/internal/modules/coursegen/video"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Course     services.CourseService
	Banner     services.BannerService
	Generation services.CourseGenerationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r repos.Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return Services{}, fmt.Errorf("load catalog %s: %w", cfg.CatalogPath, err)
		}
		cat = loaded
		log.Info("Loaded template catalog", "path", cfg.CatalogPath)
	}
	plan := planner.New(cat)

	content, err := wireContentGenerator(log, cfg, plan, clients)
	if err != nil {
		return Services{}, err
	}

	var cacheStore video.JSONStore
	if clients.VideoCache != nil {
		cacheStore = clients.VideoCache
	}
	videos := video.NewEnricher(log, video.NewYouTubeSearcher(clients.YouTube), video.NewStoreCache(cacheStore), cfg.Videos)

	store := services.NewCourseStore(db, log, r)
	asm := assembler.New(log, plan, content, videos, store, cfg.Assembler)

	banner, err := services.NewBannerService(log, r.Course, clients.Bucket)
	if err != nil {
		return Services{}, fmt.Errorf("init banner service: %w", err)
	}

	return Services{
		Auth:       services.NewAuthService(log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Course:     services.NewCourseService(log, r.Course),
		Banner:     banner,
		Generation: services.NewCourseGenerationService(log, asm, content, r.Course),
	}, nil
}

func wireContentGenerator(log *logger.Logger, cfg Config, plan *planner.Planner, clients Clients) (*contentgen.Fallback, error) {
	if clients.OpenAI == nil {
		return contentgen.NewFallback(log, nil, cfg.Content.Timeout), nil
	}
	var tools *contentgen.ToolRegistry
	if cfg.Content.Mode == contentgen.ModeTools {
		reg, err := contentgen.NewToolRegistry(contentgen.DefaultTools(plan)...)
		if err != nil {
			return nil, fmt.Errorf("init content tools: %w", err)
		}
		tools = reg
	}
	remote := contentgen.NewRemote(log, clients.OpenAI, contentgen.RemoteConfig{
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Mode:        cfg.Content.Mode,
	}, tools)
	log.Info("Remote content generation enabled", "model", cfg.OpenAI.Model, "mode", cfg.Content.Mode)
	return contentgen.NewFallback(log, remote, cfg.Content.Timeout), nil
}
