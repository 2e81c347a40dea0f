package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aegis-idp/aegis/internal/domain/revocation"
	"github.com/aegis-idp/aegis/internal/infrastructure/persistence/models"
	"github.com/aegis-idp/aegis/internal/shared/errors"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

type RevokedTokenRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewRevokedTokenRepository(db *gorm.DB, log logger.Interface) revocation.Registry {
	return &RevokedTokenRepositoryImpl{
		db:     db,
		logger: log.Named("revocation_registry"),
	}
}

// Revoke inserts the entry, treating a uniqueness violation on jti as
// AlreadyRevoked. Two near-simultaneous revocations of the same token
// both succeed: one observes Inserted, the other AlreadyRevoked.
func (r *RevokedTokenRepositoryImpl) Revoke(ctx context.Context, entry *revocation.RevokedToken) (revocation.Outcome, error) {
	// cheap pre-check; the uniqueness constraint remains the authority
	exists, err := r.exists(ctx, entry.JTI())
	if err != nil {
		return 0, err
	}
	if exists {
		return revocation.OutcomeAlreadyRevoked, nil
	}

	model := &models.RevokedTokenModel{
		JTI:       entry.JTI(),
		JTIHash:   entry.JTIHash(),
		SubjectID: entry.SubjectID(),
		ClientID:  entry.ClientID(),
		TokenType: entry.TokenType(),
		ExpiresAt: entry.ExpiresAt(),
		RevokedAt: entry.RevokedAt(),
		Reason:    entry.Reason(),
		RevokedBy: entry.RevokedBy(),
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			// lost the race against a concurrent writer; the token is
			// revoked either way
			return revocation.OutcomeAlreadyRevoked, nil
		}
		return 0, fmt.Errorf("failed to insert revoked token: %w", err)
	}

	return revocation.OutcomeInserted, nil
}

// IsRevoked performs a direct existence check against durable storage.
// Deliberately uncached: a revocation must be observed by every reader
// immediately after the revoke call returns.
func (r *RevokedTokenRepositoryImpl) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return r.exists(ctx, jti)
}

func (r *RevokedTokenRepositoryImpl) exists(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RevokedTokenModel{}).
		Where("jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return count > 0, nil
}

func (r *RevokedTokenRepositoryImpl) GetByJTI(ctx context.Context, jti string) (*revocation.RevokedToken, error) {
	var model models.RevokedTokenModel
	if err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get revoked token: %w", err)
	}

	return revocation.ReconstructRevokedToken(
		model.JTI,
		model.JTIHash,
		model.SubjectID,
		model.ClientID,
		model.TokenType,
		model.ExpiresAt,
		model.RevokedAt,
		model.Reason,
		model.RevokedBy,
	), nil
}

func (r *RevokedTokenRepositoryImpl) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&models.RevokedTokenModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge expired revocations: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Infow("purged expired revocation entries",
			"count", result.RowsAffected,
			"cutoff", cutoff,
		)
	}
	return result.RowsAffected, nil
}
