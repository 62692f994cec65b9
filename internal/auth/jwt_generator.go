package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CustomJWTAccessGenerate generates signed JWT access tokens carrying the user id and staff flag
type CustomJWTAccessGenerate struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	Users        repository.UserRepository
}

// NewCustomJWTAccessGenerate creates a new JWT access token generator
func NewCustomJWTAccessGenerate(key []byte, method jwt.SigningMethod, users repository.UserRepository) *CustomJWTAccessGenerate {
	return &CustomJWTAccessGenerate{
		SignedKey:    key,
		SignedMethod: method,
		Users:        users,
	}
}

// Token is called by the oauth2 manager to produce the access token
func (g *CustomJWTAccessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	if data.UserID == "" {
		return "", "", fmt.Errorf("cannot generate token: no user ID available")
	}

	userID, err := strconv.ParseUint(data.UserID, 10, 64)
	if err != nil {
		return "", "", fmt.Errorf("invalid user ID format: %w", err)
	}

	// staff is read from the database so a stale request cannot escalate
	user, err := g.Users.FindByID(ctx, uint(userID))
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user: %w", err)
	}

	createAt := data.TokenInfo.GetAccessCreateAt()
	claims := jwt.MapClaims{
		"aud":   data.Client.GetID(),
		"uid":   data.UserID,
		"staff": user.IsStaff,
		"jti":   uuid.New().String(),
		"iat":   createAt.Unix(),
		"exp":   createAt.Add(data.TokenInfo.GetAccessExpiresIn()).Unix(),
	}

	token := jwt.NewWithClaims(g.SignedMethod, claims)
	access, err := token.SignedString(g.SignedKey)
	if err != nil {
		return "", "", err
	}
	return access, "", nil
}

// ParseJWT verifies the HMAC signature and time claims of a token
func ParseJWT(tokenString string, key []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}
	if uid, ok := claims["uid"].(string); !ok || uid == "" {
		return nil, fmt.Errorf("token missing required 'uid' claim")
	}
	return claims, nil
}
