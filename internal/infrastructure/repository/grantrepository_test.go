package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aegis-idp/aegis/internal/domain/permission"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/infrastructure/persistence/models"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

func setupGrantDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.GrantModel{})
	require.NoError(t, err)

	return db
}

func newTestGrant(t *testing.T, subject vo.Subject, resourceID uint, scopes vo.ScopeSet) *permission.Grant {
	grant, err := permission.NewGrant(subject, "Test Subject", resourceID, scopes, false, nil, "admin")
	require.NoError(t, err)
	return grant
}

func TestGrantRepository_Create(t *testing.T) {
	db := setupGrantDB(t)
	repo := NewGrantRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("create assigns id", func(t *testing.T) {
		grant := newTestGrant(t, vo.UserSubject("alice"), 1, vo.NewScopeSet(vo.ScopeRead))

		err := repo.Create(ctx, grant)
		assert.NoError(t, err)
		assert.NotZero(t, grant.ID())
	})

	t.Run("second active grant for same subject and resource is rejected", func(t *testing.T) {
		first := newTestGrant(t, vo.UserSubject("bob"), 2, vo.NewScopeSet(vo.ScopeRead))
		require.NoError(t, repo.Create(ctx, first))

		second := newTestGrant(t, vo.UserSubject("bob"), 2, vo.NewScopeSet(vo.ScopeCreate))
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, permission.ErrDuplicateActiveGrant)
	})

	t.Run("expired grant does not block a new one", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Hour)
		expired, err := permission.NewGrant(vo.UserSubject("carol"), "Carol", 3, vo.NewScopeSet(vo.ScopeRead), false, &past, "admin")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, expired))

		fresh := newTestGrant(t, vo.UserSubject("carol"), 3, vo.NewScopeSet(vo.ScopeRead))
		assert.NoError(t, repo.Create(ctx, fresh))
	})
}

func TestGrantRepository_Update(t *testing.T) {
	db := setupGrantDB(t)
	repo := NewGrantRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("update persists scope and flag changes", func(t *testing.T) {
		grant := newTestGrant(t, vo.UserSubject("alice"), 1, vo.NewScopeSet(vo.ScopeRead))
		require.NoError(t, repo.Create(ctx, grant))

		require.NoError(t, grant.ReplaceScopes(vo.NewScopeSet(vo.ScopeRead, vo.ScopeUpdate)))
		grant.SetInheritToChildren(true)

		err := repo.Update(ctx, grant)
		assert.NoError(t, err)

		found, err := repo.GetByID(ctx, grant.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.Scopes().Contains(vo.ScopeUpdate))
		assert.True(t, found.InheritToChildren())
	})

	t.Run("updating a missing grant reports not found", func(t *testing.T) {
		ghost := newTestGrant(t, vo.UserSubject("ghost"), 9, vo.NewScopeSet(vo.ScopeRead))
		require.NoError(t, ghost.SetID(9999))

		err := repo.Update(ctx, ghost)
		assert.ErrorIs(t, err, permission.ErrGrantNotFound)
	})
}

func TestGrantRepository_Delete(t *testing.T) {
	db := setupGrantDB(t)
	repo := NewGrantRepository(db, logger.NewLogger())
	ctx := context.Background()

	grant := newTestGrant(t, vo.UserSubject("alice"), 1, vo.NewScopeSet(vo.ScopeRead))
	require.NoError(t, repo.Create(ctx, grant))

	assert.NoError(t, repo.Delete(ctx, grant.ID()))

	found, err := repo.GetByID(ctx, grant.ID())
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.ErrorIs(t, repo.Delete(ctx, grant.ID()), permission.ErrGrantNotFound)
}

func TestGrantRepository_ListActiveBySubjects(t *testing.T) {
	db := setupGrantDB(t)
	repo := NewGrantRepository(db, logger.NewLogger())
	ctx := context.Background()

	user := vo.UserSubject("alice")
	group, err := vo.NewSubject(vo.SubjectGroup, "finance")
	require.NoError(t, err)
	other := vo.UserSubject("mallory")

	require.NoError(t, repo.Create(ctx, newTestGrant(t, user, 1, vo.NewScopeSet(vo.ScopeRead))))
	require.NoError(t, repo.Create(ctx, newTestGrant(t, group, 2, vo.NewScopeSet(vo.ScopeCreate))))
	require.NoError(t, repo.Create(ctx, newTestGrant(t, other, 3, vo.NewScopeSet(vo.ScopeDelete))))

	disabled := newTestGrant(t, user, 4, vo.NewScopeSet(vo.ScopeRead))
	require.NoError(t, repo.Create(ctx, disabled))
	disabled.Disable()
	require.NoError(t, repo.Update(ctx, disabled))

	grants, err := repo.ListActiveBySubjects(ctx, []vo.Subject{user, group})
	require.NoError(t, err)
	require.Len(t, grants, 2)
	assert.Equal(t, uint(1), grants[0].ResourceID())
	assert.Equal(t, uint(2), grants[1].ResourceID())

	grants, err = repo.ListActiveBySubjects(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, grants)
}

func TestGrantRepository_List(t *testing.T) {
	db := setupGrantDB(t)
	repo := NewGrantRepository(db, logger.NewLogger())
	ctx := context.Background()

	for i := uint(1); i <= 5; i++ {
		require.NoError(t, repo.Create(ctx, newTestGrant(t, vo.UserSubject("alice"), i, vo.NewScopeSet(vo.ScopeRead))))
	}
	require.NoError(t, repo.Create(ctx, newTestGrant(t, vo.UserSubject("bob"), 1, vo.NewScopeSet(vo.ScopeRead))))

	t.Run("filter by subject", func(t *testing.T) {
		grants, total, err := repo.List(ctx, permission.GrantFilter{
			SubjectType: vo.SubjectUser,
			SubjectID:   "alice",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, grants, 5)
	})

	t.Run("pagination clamps to page size", func(t *testing.T) {
		grants, total, err := repo.List(ctx, permission.GrantFilter{Page: 2, PageSize: 4})
		require.NoError(t, err)
		assert.Equal(t, int64(6), total)
		assert.Len(t, grants, 2)
	})
}

func TestGrantRepository_UnparseableScopesFallBackToEmpty(t *testing.T) {
	db := setupGrantDB(t)
	repo := NewGrantRepository(db, logger.NewLogger())
	ctx := context.Background()

	legacy := &models.GrantModel{
		SubjectType: string(vo.SubjectUser),
		SubjectID:   "alice",
		ResourceID:  1,
		Scopes:      "???",
		Enabled:     true,
		GrantedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, db.Create(legacy).Error)

	found, err := repo.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Scopes().IsEmpty())
}
