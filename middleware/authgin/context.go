package authgin

import (
	"context"

	"github.com/gin-gonic/gin"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
)

func requestContext(c *gin.Context) context.Context {
	return goTokenAuth.WithClientIP(c.Request.Context(), c.ClientIP())
}
