package auth

import (
	"context"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/config"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
	"github.com/franciscosanchezn/gin-recipe-api/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-jwt-secret-key-32-characters"

func setupTokenService(t *testing.T, format string) (*gorm.DB, repository.UserRepository, TokenService) {
	db := testutil.NewTestDB(t)
	users := repository.NewUserRepository(db)
	svc := NewTokenService(db, users, TokenConfig{Format: format, Secret: testSecret, TTL: time.Hour})
	return db, users, svc
}

func createUser(t *testing.T, users repository.UserRepository, email string) *models.User {
	user := &models.User{Email: email, Password: "hash", IsActive: true}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("testpass123")
	require.NoError(t, err)
	assert.NotEqual(t, "testpass123", hash)
	assert.True(t, hasher.Compare(hash, "testpass123"))
	assert.False(t, hasher.Compare(hash, "wrongpass"))
}

func TestBcryptHasherFallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
}

func TestIssueTokenOpaque(t *testing.T) {
	db, users, svc := setupTokenService(t, config.TokenFormatOpaque)
	ctx := context.Background()
	user := createUser(t, users, "test@example.com")

	token, err := svc.IssueToken(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, ".")

	var stored models.AuthToken
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&stored).Error)
	assert.Equal(t, token, stored.AccessToken)
	assert.Equal(t, APIClientID, stored.ClientID)
	assert.WithinDuration(t, stored.IssuedAt.Add(time.Hour), stored.ExpiresAt, time.Second)

	authenticated, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)
}

func TestIssueTokenReusesUnexpiredToken(t *testing.T) {
	db, users, svc := setupTokenService(t, config.TokenFormatOpaque)
	ctx := context.Background()
	user := createUser(t, users, "test@example.com")

	first, err := svc.IssueToken(ctx, user)
	require.NoError(t, err)
	second, err := svc.IssueToken(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var count int64
	db.Model(&models.AuthToken{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestIssueTokenReplacesExpiredToken(t *testing.T) {
	db, users, svc := setupTokenService(t, config.TokenFormatOpaque)
	ctx := context.Background()
	user := createUser(t, users, "test@example.com")

	first, err := svc.IssueToken(ctx, user)
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&models.AuthToken{}).Where("user_id = ?", user.ID).
		Updates(map[string]interface{}{"issued_at": past, "expires_at": past.Add(time.Hour)}).Error)

	_, err = svc.Authenticate(ctx, first)
	assert.ErrorIs(t, err, ErrInvalidToken)

	second, err := svc.IssueToken(ctx, user)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	var count int64
	db.Model(&models.AuthToken{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = svc.Authenticate(ctx, second)
	assert.NoError(t, err)
}

func TestAuthenticateRejections(t *testing.T) {
	db, users, svc := setupTokenService(t, config.TokenFormatOpaque)
	ctx := context.Background()
	user := createUser(t, users, "test@example.com")

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := svc.IssueToken(ctx, user)
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestRevoke(t *testing.T) {
	_, users, svc := setupTokenService(t, config.TokenFormatOpaque)
	ctx := context.Background()
	user := createUser(t, users, "test@example.com")

	token, err := svc.IssueToken(ctx, user)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, token))

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTTokenGeneration(t *testing.T) {
	_, users, svc := setupTokenService(t, config.TokenFormatJWT)
	ctx := context.Background()
	user := createUser(t, users, "staff@example.com")
	user.IsStaff = true
	require.NoError(t, users.Update(ctx, user))

	token, err := svc.IssueToken(ctx, user)
	require.NoError(t, err)
	assert.Contains(t, token, ".")

	claims, err := ParseJWT(token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, "1", claims["uid"])
	assert.Equal(t, true, claims["staff"])
	assert.Equal(t, APIClientID, claims["aud"])

	authenticated, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)
}

func TestJWTRejectsForgedSignature(t *testing.T) {
	_, users, svc := setupTokenService(t, config.TokenFormatJWT)
	createUser(t, users, "test@example.com")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseJWTRequiresUID(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseJWT(signed, []byte(testSecret))
	assert.Error(t, err)
}

func TestGormTokenStoreUnknownAccess(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewGormTokenStore(db)

	info, err := store.GetByAccess(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, info)

	token, err := store.GetByUserID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, token)
}
