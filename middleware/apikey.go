package middleware

import (
	"crypto/subtle"

	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/gin-gonic/gin"
)

// APIKeyUser is the principal id recorded for back-office scripts.
const APIKeyUser = "api-key"

func apiKeyPrincipal(c *gin.Context, key string) (auth.Principal, bool) {
	if key == "" {
		return auth.Principal{}, false
	}
	got := c.GetHeader("X-API-KEY")
	if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
		return auth.Principal{}, false
	}
	return auth.Principal{UserID: APIKeyUser, Role: models.RoleAdmin}, true
}
