package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aegis-idp/aegis/internal/domain/resource"
	"github.com/aegis-idp/aegis/internal/infrastructure/persistence/models"
)

func setupResourceDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ResourceModel{})
	require.NoError(t, err)

	return db
}

func newTestResource(t *testing.T, clientID uint, code string, parentID *uint) *resource.Resource {
	res, err := resource.NewResource(clientID, code, "Resource "+code, "menu", parentID, 0)
	require.NoError(t, err)
	return res
}

func TestResourceRepository_Create(t *testing.T) {
	db := setupResourceDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	t.Run("create assigns id", func(t *testing.T) {
		res := newTestResource(t, 1, "payroll", nil)

		err := repo.Create(ctx, res)
		assert.NoError(t, err)
		assert.NotZero(t, res.ID())
	})

	t.Run("duplicate code within a client is rejected", func(t *testing.T) {
		res := newTestResource(t, 1, "payroll.reports", nil)
		require.NoError(t, repo.Create(ctx, res))

		dup := newTestResource(t, 1, "payroll.reports", nil)
		assert.ErrorIs(t, repo.Create(ctx, dup), resource.ErrCodeExists)
	})

	t.Run("same code under another client is allowed", func(t *testing.T) {
		res := newTestResource(t, 2, "payroll.reports", nil)
		assert.NoError(t, repo.Create(ctx, res))
	})
}

func TestResourceRepository_GetByID(t *testing.T) {
	db := setupResourceDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	res := newTestResource(t, 1, "hr", nil)
	require.NoError(t, repo.Create(ctx, res))

	found, err := repo.GetByID(ctx, res.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "hr", found.Code())
	assert.Equal(t, uint(1), found.ClientID())
}

func TestResourceRepository_ListAll(t *testing.T) {
	db := setupResourceDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	root := newTestResource(t, 1, "payroll", nil)
	require.NoError(t, repo.Create(ctx, root))

	rootID := root.ID()
	child := newTestResource(t, 1, "payroll.reports", &rootID)
	require.NoError(t, repo.Create(ctx, child))

	hidden := &models.ResourceModel{ClientID: 1, Code: "payroll.hidden", Name: "Hidden"}
	require.NoError(t, db.Create(hidden).Error)
	require.NoError(t, db.Model(hidden).Update("enabled", false).Error)

	other := newTestResource(t, 2, "hr", nil)
	require.NoError(t, repo.Create(ctx, other))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "payroll", all[0].Code())
	assert.Equal(t, "payroll.reports", all[1].Code())
	require.NotNil(t, all[1].ParentID())
	assert.Equal(t, rootID, *all[1].ParentID())
	assert.Equal(t, "hr", all[2].Code())
}

func TestResourceRepository_DisabledParentReRootsChildren(t *testing.T) {
	db := setupResourceDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	root := newTestResource(t, 1, "payroll", nil)
	require.NoError(t, repo.Create(ctx, root))

	rootID := root.ID()
	mid := newTestResource(t, 1, "payroll.reports", &rootID)
	require.NoError(t, repo.Create(ctx, mid))

	midID := mid.ID()
	leaf := newTestResource(t, 1, "payroll.reports.annual", &midID)
	require.NoError(t, repo.Create(ctx, leaf))

	require.NoError(t, db.Model(&models.ResourceModel{}).Where("id = ?", midID).Update("enabled", false).Error)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	tree := resource.NewTree(all)

	// the disabled node is gone from the snapshot entirely
	_, err = tree.DescendantsOf(midID)
	assert.ErrorIs(t, err, resource.ErrResourceNotFound)

	// its enabled child re-roots: no longer reached from the old root
	ids, err := tree.DescendantsOf(rootID)
	require.NoError(t, err)
	assert.NotContains(t, ids, leaf.ID())

	// but stays directly grantable
	resolved, err := tree.ResolveByCode(1, "payroll.reports.annual")
	require.NoError(t, err)
	assert.Equal(t, leaf.ID(), resolved)
}

func TestResourceRepository_ListByClient(t *testing.T) {
	db := setupResourceDB(t)
	repo := NewResourceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestResource(t, 1, "payroll", nil)))
	require.NoError(t, repo.Create(ctx, newTestResource(t, 2, "hr", nil)))

	scoped, err := repo.ListByClient(ctx, 1)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "payroll", scoped[0].Code())
}
