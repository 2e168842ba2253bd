package handler

import (
	"luckyvista-backend/service"
	"luckyvista-backend/util"

	"github.com/gin-gonic/gin"
)

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: util.ClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	}
}
