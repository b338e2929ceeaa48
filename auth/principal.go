package auth

import (
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Role   models.Role
}

func (p Principal) Admin() bool {
	return p.Role.Elevated()
}

// Owns reports whether the caller may act on a resource belonging to userID.
func (p Principal) Owns(userID string) bool {
	return p.UserID == userID
}

func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
