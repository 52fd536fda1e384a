package api

import (
	ingestRepo "briefops/internal/ingest/repository"
	usageUsecase "briefops/internal/usage/usecase"
	"briefops/pkg/config"

	"github.com/gin-gonic/gin"
)

// Handler serves the operational HTTP surface next to the Socket Mode bot.
// Cloud Run health checks and dashboards hit these endpoints.
type Handler struct {
	config  *config.Config
	limiter *usageUsecase.Limiter
	ingests ingestRepo.IngestionRepository
}

func NewHandler(cfg *config.Config, limiter *usageUsecase.Limiter, ingests ingestRepo.IngestionRepository) *Handler {
	return &Handler{
		config:  cfg,
		limiter: limiter,
		ingests: ingests,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	SetupRoutes(r, h)

	return r.Run(addr)
}
