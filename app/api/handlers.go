package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tsubasa-dev/feed-deliver/app/history"
)

type Handler struct {
	outputDir string
}

func NewHandler(outputDir string) *Handler {
	return &Handler{outputDir: outputDir}
}

func (h *Handler) GetIndex(c *gin.Context) {
	c.File(filepath.Join(h.outputDir, "index.html"))
}

func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")
	name = strings.TrimSuffix(name, ".xml")
	if name == "" || strings.ContainsAny(name, "/\\.") {
		c.Status(http.StatusBadRequest)
		return
	}

	path := filepath.Join(h.outputDir, name+".xml")
	if _, err := os.Stat(path); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.File(path)
}

func (h *Handler) GetHistory(c *gin.Context) {
	path := filepath.Join(h.outputDir, history.FileName)
	if _, err := os.Stat(path); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", "application/json; charset=utf-8")
	c.File(path)
}

func (h *Handler) GetHealth(c *gin.Context) {
	healthInfo := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	feeds, err := filepath.Glob(filepath.Join(h.outputDir, "*.xml"))
	if err == nil {
		healthInfo["feeds"] = len(feeds)
	}

	c.JSON(http.StatusOK, healthInfo)
}
