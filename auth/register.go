package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/register creates a customer account and signs it in.
func Register(s store.Store, issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}
		if len(req.Password) < minPasswordLength {
			apperrors.Respond(c, apperrors.Invalid("password", "password must be at least %d characters", minPasswordLength))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			apperrors.Respond(c, fmt.Errorf("hash password: %w", err))
			return
		}
		user := &models.User{
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: string(hash),
			Role:         models.RoleCustomer,
		}
		if err := s.CreateUser(c.Request.Context(), user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				apperrors.Respond(c, apperrors.Invalid("email", "an account with this email already exists"))
				return
			}
			apperrors.Respond(c, err)
			return
		}

		token, exp, err := issuer.Issue(user)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		log.Printf("✅ Registered user: %s", user.Email)
		c.JSON(http.StatusCreated, gin.H{
			"token":      token,
			"expires_at": exp,
			"user":       user,
		})
	}
}
