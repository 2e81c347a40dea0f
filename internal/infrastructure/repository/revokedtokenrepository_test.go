package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aegis-idp/aegis/internal/domain/revocation"
	"github.com/aegis-idp/aegis/internal/infrastructure/persistence/models"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

func setupRegistryDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.RevokedTokenModel{})
	require.NoError(t, err)

	return db
}

func newTestEntry(t *testing.T, jti string, expiresAt time.Time) *revocation.RevokedToken {
	entry, err := revocation.NewRevokedToken(jti, "user-1", "payroll-app", "access_token", expiresAt, "revocation_endpoint", "payroll-app")
	require.NoError(t, err)
	return entry
}

func TestRevokedTokenRepository_Revoke(t *testing.T) {
	db := setupRegistryDB(t)
	repo := NewRevokedTokenRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("first revocation inserts", func(t *testing.T) {
		entry := newTestEntry(t, "jti-insert", time.Now().Add(time.Hour))

		outcome, err := repo.Revoke(ctx, entry)
		assert.NoError(t, err)
		assert.Equal(t, revocation.OutcomeInserted, outcome)
	})

	t.Run("second revocation of the same jti reports already revoked", func(t *testing.T) {
		entry := newTestEntry(t, "jti-dup", time.Now().Add(time.Hour))

		outcome, err := repo.Revoke(ctx, entry)
		require.NoError(t, err)
		require.Equal(t, revocation.OutcomeInserted, outcome)

		again := newTestEntry(t, "jti-dup", time.Now().Add(time.Hour))
		outcome, err = repo.Revoke(ctx, again)
		assert.NoError(t, err)
		assert.Equal(t, revocation.OutcomeAlreadyRevoked, outcome)
	})
}

func TestRevokedTokenRepository_IsRevoked(t *testing.T) {
	db := setupRegistryDB(t)
	repo := NewRevokedTokenRepository(db, logger.NewLogger())
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "jti-unknown")
	assert.NoError(t, err)
	assert.False(t, revoked)

	entry := newTestEntry(t, "jti-revoked", time.Now().Add(time.Hour))
	_, err = repo.Revoke(ctx, entry)
	require.NoError(t, err)

	revoked, err = repo.IsRevoked(ctx, "jti-revoked")
	assert.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokedTokenRepository_GetByJTI(t *testing.T) {
	db := setupRegistryDB(t)
	repo := NewRevokedTokenRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("missing jti returns nil without error", func(t *testing.T) {
		entry, err := repo.GetByJTI(ctx, "jti-missing")
		assert.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("stored entry round-trips", func(t *testing.T) {
		entry := newTestEntry(t, "jti-lookup", time.Now().Add(time.Hour))
		_, err := repo.Revoke(ctx, entry)
		require.NoError(t, err)

		found, err := repo.GetByJTI(ctx, "jti-lookup")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "jti-lookup", found.JTI())
		assert.Equal(t, "user-1", found.SubjectID())
		assert.Equal(t, "payroll-app", found.ClientID())
		assert.Equal(t, revocation.HashJTI("jti-lookup"), found.JTIHash())
	})
}

func TestRevokedTokenRepository_PurgeExpired(t *testing.T) {
	db := setupRegistryDB(t)
	repo := NewRevokedTokenRepository(db, logger.NewLogger())
	ctx := context.Background()

	now := time.Now()

	expired := newTestEntry(t, "jti-expired", now.Add(-2*time.Hour))
	_, err := repo.Revoke(ctx, expired)
	require.NoError(t, err)

	live := newTestEntry(t, "jti-live", now.Add(2*time.Hour))
	_, err = repo.Revoke(ctx, live)
	require.NoError(t, err)

	purged, err := repo.PurgeExpired(ctx, now.Add(-time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	revoked, err := repo.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "jti-live")
	require.NoError(t, err)
	assert.True(t, revoked)
}
