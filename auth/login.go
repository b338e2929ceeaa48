package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
func Login(s store.Store, issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		user, err := s.GetUserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				apperrors.Respond(c, apperrors.ErrUnauthorized)
				return
			}
			apperrors.Respond(c, err)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Printf("⚠️ Failed login for %s", user.Email)
			apperrors.Respond(c, apperrors.ErrUnauthorized)
			return
		}

		token, exp, err := issuer.Issue(user)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": exp,
			"user":       user,
		})
	}
}
