package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func NewRouter(log *logrus.Logger, cfg *Config, a *App, version string) *gin.Engine {
	RegisterTagNames()

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(log))

	router.GET("/version", func(c *gin.Context) {
		fmt.Fprintf(c.Writer, "%s\n", version)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	meetings := router.Group("/meetings", AuthMiddleware(cfg))
	{
		meetings.GET("", a.ListMeetingLinksHandler)
		meetings.GET("/availabilities/:slug", a.GetAvailabilityHandler)
		meetings.GET("/:slug", a.GetMeetingLinkHandler)
		meetings.POST("/book", a.BookMeetingHandler)
	}
	return router
}
