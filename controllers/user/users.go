package userControllers

import (
	"net/http"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
)

type profile struct {
	*models.User
	Addresses []models.Address `json:"addresses"`
}

// GET /user/me
func GetUser(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}
		ctx := c.Request.Context()
		user, err := s.GetUser(ctx, p.UserID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		addresses, err := s.ListAddresses(ctx, user.ID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if addresses == nil {
			addresses = []models.Address{}
		}
		c.JSON(http.StatusOK, profile{User: user, Addresses: addresses})
	}
}
