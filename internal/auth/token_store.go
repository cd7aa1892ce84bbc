// auth/token_store.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTokenStore implements TokenStore on a relational row keyed by realm
type GormTokenStore struct {
	db *gorm.DB
}

// NewGormTokenStore creates a new relational token store
func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

// Upsert inserts the record or, on realm conflict, overwrites the token
// columns of the existing row. updated_at is set by the store.
func (s *GormTokenStore) Upsert(ctx context.Context, rec *TokenRecord) error {
	rec.UpdatedAt = time.Now().UTC()

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "realm_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token",
			"refresh_token",
			"expires_at",
			"refresh_expires_at",
			"updated_at",
		}),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to save token record: %w", err)
	}

	return nil
}

// Get retrieves the token record for a realm
func (s *GormTokenStore) Get(ctx context.Context, realmID string) (*TokenRecord, error) {
	var rec TokenRecord
	err := s.db.WithContext(ctx).First(&rec, "realm_id = ?", realmID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRecord
		}
		return nil, fmt.Errorf("failed to get token record: %w", err)
	}

	return &rec, nil
}
