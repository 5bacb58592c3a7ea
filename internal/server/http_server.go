package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Run(router *gin.Engine, addr string) error {
	if err := router.Run(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
