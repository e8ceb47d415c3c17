package middlewares

import (
	"net/http"
	"strings"

	"checadas.com/ponches/security"
	"checadas.com/ponches/web/common"
	"github.com/gin-gonic/gin"
)

const (
	ClaimsKey   = "claims"
	TokenCookie = "ponches.token"
)

// Authentication checks for a valid Bearer token, falling back to the token
// cookie. An empty secret disables the check.
func Authentication(base64Secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if base64Secret == "" {
			c.Next()
			return
		}

		tokenStr := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			cookie, err := c.Cookie(TokenCookie)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("missing token"))
				return
			}
			tokenStr = cookie
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("malformed authorization header"))
				return
			}
			tokenStr = parts[1]
		}

		claims, err := security.ParseIdentityToken(tokenStr, base64Secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
