package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casalabia/realtor-backend/internal/config"
)

type SystemHandler struct {
	cfg       config.Config
	startedAt time.Time
}

func NewSystemHandler(cfg config.Config) *SystemHandler {
	return &SystemHandler{cfg: cfg, startedAt: time.Now()}
}

func (sh *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": sh.cfg.App.Version,
		"uptime":  time.Since(sh.startedAt).Round(time.Second).String(),
	})
}

// ClientConfig exposes the limits the frontend needs to validate uploads
// and drive the AI form before hitting the API.
func (sh *SystemHandler) ClientConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"maxFilesPerListing": sh.cfg.Media.MaxFilesPerListing,
		"maxFileSizeBytes":   sh.cfg.Media.MaxFileSizeBytes,
		"minDimensionPx":     sh.cfg.Media.MinDimensionPx,
		"maxDimensionPx":     sh.cfg.Media.MaxDimensionPx,
		"aiTones":            []string{"professionale", "informale", "premium"},
		"aiLengths":          []string{"short", "medium", "long"},
		"aiLocales":          []string{"it-IT", "ru-RU", "en-US"},
	})
}
