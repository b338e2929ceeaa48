package addressControllers

import (
	"net/http"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
)

type AddressRequest struct {
	AddressInput
	IsDefault bool `json:"isDefault"`
}

func currentUser(c *gin.Context) (string, bool) {
	p, ok := auth.PrincipalFrom(c)
	if !ok || p.UserID == "" {
		apperrors.Respond(c, apperrors.ErrUnauthorized)
		return "", false
	}
	return p.UserID, true
}

// GET /user/addresses
func ListAddresses(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		addrs, err := s.ListAddresses(c.Request.Context(), userID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if addrs == nil {
			addrs = []models.Address{}
		}
		c.JSON(http.StatusOK, addrs)
	}
}

// POST /user/addresses
func CreateAddress(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			apperrors.Respond(c, err)
			return
		}

		snap := req.Snapshot()
		addr := &models.Address{
			UserID:       userID,
			FullName:     snap.FullName,
			Phone:        snap.Phone,
			AddressLine1: snap.AddressLine1,
			AddressLine2: snap.AddressLine2,
			City:         snap.City,
			State:        snap.State,
			Pincode:      snap.Pincode,
			IsDefault:    req.IsDefault,
		}
		if err := s.CreateAddress(c.Request.Context(), addr); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, addr)
	}
}

// PUT /user/addresses/:id
func UpdateAddress(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			apperrors.Respond(c, err)
			return
		}

		snap := req.Snapshot()
		addr, err := s.UpdateAddress(c.Request.Context(), userID, c.Param("id"), func(a *models.Address) {
			a.FullName = snap.FullName
			a.Phone = snap.Phone
			a.AddressLine1 = snap.AddressLine1
			a.AddressLine2 = snap.AddressLine2
			a.City = snap.City
			a.State = snap.State
			a.Pincode = snap.Pincode
			a.IsDefault = req.IsDefault
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, addr)
	}
}

// PUT /user/addresses/:id/default
func SetDefaultAddress(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		addr, err := s.SetDefaultAddress(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, addr)
	}
}

// DELETE /user/addresses/:id
func DeleteAddress(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		if err := s.DeleteAddress(c.Request.Context(), userID, c.Param("id")); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully"})
	}
}
