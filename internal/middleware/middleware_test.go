package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeTokens struct {
	users map[string]*models.User
	err   error
}

func (f *fakeTokens) IssueToken(ctx context.Context, user *models.User) (string, error) {
	return "", nil
}

func (f *fakeTokens) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if user, ok := f.users[token]; ok {
		return user, nil
	}
	return nil, auth.ErrInvalidToken
}

func (f *fakeTokens) Revoke(ctx context.Context, token string) error {
	return nil
}

func setupRouter(tokens auth.TokenService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{TokenAuth(tokens)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := GetUserID(c)
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "email": user.Email, "token": GetToken(c)})
	})
	router.GET("/protected", handlers...)
	return router
}

func doRequest(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTokenAuth(t *testing.T) {
	tokens := &fakeTokens{users: map[string]*models.User{
		"good": {ID: 7, Email: "user@example.com", IsActive: true},
	}}
	router := setupRouter(tokens)

	testCases := []struct {
		name   string
		header string
		status int
	}{
		{"token scheme", "Token good", http.StatusOK},
		{"bearer scheme", "Bearer good", http.StatusOK},
		{"scheme is case-insensitive", "token good", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"unknown scheme", "Basic good", http.StatusUnauthorized},
		{"missing key", "Token ", http.StatusUnauthorized},
		{"key with spaces", "Token go od", http.StatusUnauthorized},
		{"unknown key", "Token bad", http.StatusUnauthorized},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"email":"user@example.com","token":"good"}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), models.ErrUnauthorized)
			}
		})
	}
}

func TestTokenAuthInactiveAndInternalErrors(t *testing.T) {
	w := doRequest(setupRouter(&fakeTokens{err: auth.ErrInactiveUser}), "Token any")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(setupRouter(&fakeTokens{err: errors.New("db down")}), "Token any")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestRequireStaff(t *testing.T) {
	tokens := &fakeTokens{users: map[string]*models.User{
		"staff": {ID: 1, Email: "admin@example.com", IsStaff: true},
		"user":  {ID: 2, Email: "user@example.com"},
	}}
	router := setupRouter(tokens, RequireStaff())

	assert.Equal(t, http.StatusOK, doRequest(router, "Token staff").Code)

	w := doRequest(router, "Token user")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrForbidden)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusTeapot, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}
