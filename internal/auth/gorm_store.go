package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	internalmodels "github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTokenStore persists access tokens in the auth_tokens table, one row per user.
// It implements oauth2.TokenStore; refresh tokens and authorization codes are not issued.
type GormTokenStore struct {
	db *gorm.DB
}

func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

// Create stores the token, replacing any previous token of the same user
func (s *GormTokenStore) Create(ctx context.Context, info oauth2.TokenInfo) error {
	userID, err := strconv.ParseUint(info.GetUserID(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid token user id %q: %w", info.GetUserID(), err)
	}

	issuedAt := info.GetAccessCreateAt()
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	token := &internalmodels.AuthToken{
		UserID:      uint(userID),
		ClientID:    info.GetClientID(),
		AccessToken: info.GetAccess(),
		IssuedAt:    issuedAt,
		ExpiresAt:   issuedAt.Add(info.GetAccessExpiresIn()),
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"client_id", "access_token", "issued_at", "expires_at", "updated_at"}),
	}).Create(token).Error
}

func (s *GormTokenStore) RemoveByAccess(ctx context.Context, access string) error {
	return s.db.WithContext(ctx).Where("access_token = ?", access).Delete(&internalmodels.AuthToken{}).Error
}

// GetByAccess returns nil without error when the token is unknown
func (s *GormTokenStore) GetByAccess(ctx context.Context, access string) (oauth2.TokenInfo, error) {
	var token internalmodels.AuthToken
	if err := s.db.WithContext(ctx).Where("access_token = ?", access).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toTokenInfo(&token), nil
}

// GetByUserID returns the stored token of a user, or nil when there is none
func (s *GormTokenStore) GetByUserID(ctx context.Context, userID uint) (*internalmodels.AuthToken, error) {
	var token internalmodels.AuthToken
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (s *GormTokenStore) RemoveByRefresh(ctx context.Context, refresh string) error {
	return nil
}

func (s *GormTokenStore) GetByRefresh(ctx context.Context, refresh string) (oauth2.TokenInfo, error) {
	return nil, nil
}

func (s *GormTokenStore) GetByCode(ctx context.Context, code string) (oauth2.TokenInfo, error) {
	return nil, nil
}

func (s *GormTokenStore) RemoveByCode(ctx context.Context, code string) error {
	return nil
}

func toTokenInfo(token *internalmodels.AuthToken) oauth2.TokenInfo {
	return &models.Token{
		ClientID:        token.ClientID,
		UserID:          strconv.FormatUint(uint64(token.UserID), 10),
		Access:          token.AccessToken,
		AccessCreateAt:  token.IssuedAt,
		AccessExpiresIn: token.ExpiresAt.Sub(token.IssuedAt),
	}
}
