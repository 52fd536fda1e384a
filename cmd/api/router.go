package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Health check for the Cloud Run probe
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/status", h.getStatus)
	}
}

func (h *Handler) getStatus(c *gin.Context) {
	ingested := -1
	if files, err := h.ingests.ListIngestedFiles(c.Request.Context()); err == nil {
		ingested = len(files)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"model":             h.config.GeminiModel,
		"dailySummaryLimit": h.limiter.DailyLimit(),
		"maxSummarizeDays":  h.limiter.MaxDays(),
		"ingestedDocuments": ingested,
	})
}
