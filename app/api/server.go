package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer builds the preview HTTP server over the output directory.
// Production publishing is static hosting; this server exists for local
// inspection and CI smoke checks of a finished run.
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	r.GET("/", handler.GetIndex)
	r.GET("/feeds/:name", handler.GetFeed)
	r.GET("/deleted-articles-history.json", handler.GetHistory)
	r.GET("/health", handler.GetHealth)

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})

	return r
}
