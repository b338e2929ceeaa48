package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, exp, err := issuer.Issue(&models.User{ID: "u1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	p, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.True(t, p.Admin())
}

func TestParseRejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, _, err := issuer.Issue(&models.User{ID: "u1", Role: models.RoleCustomer})
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	expired := NewIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.Parse(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"role":    "superuser",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	raw, err := forged.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = issuer.Parse(raw)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "unknown roles are rejected")
}

func TestLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := store.NewMemoryStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.CreateUser(context.Background(), &models.User{
		Email: "demo@example.com", PasswordHash: string(hash), Role: models.RoleCustomer,
	}))

	issuer := NewIssuer("secret", time.Hour)
	r := gin.New()
	r.POST("/auth/login", Login(s, issuer))

	login := func(email, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(LoginRequest{Email: email, Password: password})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := login("demo@example.com", "demo123")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	p, err := issuer.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, p.Role)
	assert.NotContains(t, w.Body.String(), "demo123")

	assert.Equal(t, http.StatusUnauthorized, login("demo@example.com", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, login("nobody@example.com", "demo123").Code)
	assert.Equal(t, http.StatusBadRequest, login("", "").Code)
}

func TestRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := store.NewMemoryStore()
	issuer := NewIssuer("secret", time.Hour)
	r := gin.New()
	r.POST("/auth/register", Register(s, issuer))
	r.POST("/auth/login", Login(s, issuer))

	post := func(path string, body any) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post("/auth/register", RegisterRequest{Name: "Nami", Email: "Nami@Example.com", Password: "tangerine"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"role":"user"`)

	w = post("/auth/register", RegisterRequest{Email: "nami@example.com", Password: "another1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"email"`)

	w = post("/auth/register", RegisterRequest{Email: "zoro@example.com", Password: "abc"})
	assert.Contains(t, w.Body.String(), `"field":"password"`)

	assert.Equal(t, http.StatusOK, post("/auth/login", LoginRequest{Email: "nami@example.com", Password: "tangerine"}).Code)
}
