package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/config"
	internalmodels "github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/generates"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/go-oauth2/oauth2/v4/models"
	"github.com/go-oauth2/oauth2/v4/store"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// APIClientID identifies the built-in public client every API token is issued to
const APIClientID = "recipe-api"

var (
	// ErrInvalidToken is returned for unknown, expired, revoked or forged tokens
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrInactiveUser is returned when the token owner has been deactivated
	ErrInactiveUser = errors.New("user is inactive")
)

// TokenConfig configures token generation
type TokenConfig struct {
	// Format is config.TokenFormatOpaque or config.TokenFormatJWT
	Format string
	// Secret signs JWT tokens
	Secret string
	// TTL is the lifetime of an issued token
	TTL time.Duration
}

// TokenService issues, validates and revokes API tokens
type TokenService interface {
	// IssueToken returns the user's unexpired token or creates a new one
	IssueToken(ctx context.Context, user *internalmodels.User) (string, error)
	// Authenticate resolves a token to its active owner
	Authenticate(ctx context.Context, token string) (*internalmodels.User, error)
	// Revoke deletes a token
	Revoke(ctx context.Context, token string) error
}

type tokenService struct {
	manager *manage.Manager
	store   *GormTokenStore
	users   repository.UserRepository
	cfg     TokenConfig
	now     func() time.Time
}

// NewTokenService wires the oauth2 manager with the GORM token store and the built-in client
func NewTokenService(db *gorm.DB, users repository.UserRepository, cfg TokenConfig) TokenService {
	manager := manage.NewDefaultManager()
	manager.SetPasswordTokenCfg(&manage.Config{
		AccessTokenExp:    cfg.TTL,
		IsGenerateRefresh: false,
	})

	if cfg.Format == config.TokenFormatJWT {
		manager.MapAccessGenerate(NewCustomJWTAccessGenerate([]byte(cfg.Secret), jwt.SigningMethodHS256, users))
	} else {
		manager.MapAccessGenerate(generates.NewAccessGenerate())
	}

	tokenStore := NewGormTokenStore(db)
	manager.MustTokenStorage(tokenStore, nil)

	clientStore := store.NewClientStore()
	clientStore.Set(APIClientID, &models.Client{
		ID:     APIClientID,
		Public: true,
	})
	manager.MapClientStorage(clientStore)

	return &tokenService{
		manager: manager,
		store:   tokenStore,
		users:   users,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *tokenService) IssueToken(ctx context.Context, user *internalmodels.User) (string, error) {
	existing, err := s.store.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	if existing != nil && !existing.Expired(s.now()) {
		return existing.AccessToken, nil
	}

	info, err := s.manager.GenerateAccessToken(ctx, oauth2.PasswordCredentials, &oauth2.TokenGenerateRequest{
		ClientID: APIClientID,
		UserID:   strconv.FormatUint(uint64(user.ID), 10),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return info.GetAccess(), nil
}

func (s *tokenService) Authenticate(ctx context.Context, token string) (*internalmodels.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	if s.cfg.Format == config.TokenFormatJWT {
		if _, err := ParseJWT(token, []byte(s.cfg.Secret)); err != nil {
			return nil, ErrInvalidToken
		}
	}

	info, err := s.manager.LoadAccessToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(info.GetUserID(), 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

func (s *tokenService) Revoke(ctx context.Context, token string) error {
	return s.manager.RemoveAccessToken(ctx, token)
}
