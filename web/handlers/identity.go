package handlers

import (
	"net/http"

	"checadas.com/ponches/web/common"
	"checadas.com/ponches/web/middlewares"
	"github.com/gin-gonic/gin"
)

// WhoAmI echoes the identity of the verified token.
func WhoAmI(c *gin.Context) {
	claims, ok := c.Get(middlewares.ClaimsKey)
	if !ok {
		c.JSON(http.StatusOK, common.NewSuccessResponse(nil))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(claims))
}
