package userControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	s := store.NewMemoryStore()
	u := &models.User{Email: "demo@example.com", Name: "Demo", PasswordHash: "secret-hash"}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NoError(t, s.CreateAddress(ctx, &models.Address{UserID: u.ID, FullName: "Demo", Phone: "9876543210", AddressLine1: "1 Road", City: "Pune", State: "MH", Pincode: "411001"}))

	r := gin.New()
	r.GET("/user/me", func(c *gin.Context) {
		auth.SetPrincipal(c, auth.Principal{UserID: c.GetHeader("X-User"), Role: models.RoleCustomer})
	}, GetUser(s))

	get := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get(u.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Email     string           `json:"email"`
		Addresses []models.Address `json:"addresses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "demo@example.com", body.Email)
	assert.Len(t, body.Addresses, 1)
	assert.NotContains(t, w.Body.String(), "secret-hash")

	assert.Equal(t, http.StatusNotFound, get("missing").Code)
}
