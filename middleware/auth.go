package middleware

import (
	"strings"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Authenticate requires a valid bearer token, or the admin API key when one
// is configured, and stores the caller's principal on the context.
func Authenticate(issuer *auth.Issuer, adminAPIKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, ok := apiKeyPrincipal(c, adminAPIKey); ok {
			auth.SetPrincipal(c, p)
			c.Next()
			return
		}

		tokenString := c.GetHeader("Authorization")
		if tokenString == "" && websocket.IsWebSocketUpgrade(c.Request) {
			// browsers cannot set headers on a websocket handshake
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}
		tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))

		p, err := issuer.Parse(tokenString)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		auth.SetPrincipal(c, p)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		apperrors.Respond(c, apperrors.ErrUnauthorized)
		return
	}
	if !p.Admin() {
		apperrors.Respond(c, apperrors.ErrForbidden)
		return
	}
	c.Next()
}
