package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aegis-idp/aegis/internal/domain/resource"
	"github.com/aegis-idp/aegis/internal/infrastructure/persistence/models"
)

type ResourceRepositoryImpl struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) resource.Repository {
	return &ResourceRepositoryImpl{db: db}
}

func (r *ResourceRepositoryImpl) Create(ctx context.Context, res *resource.Resource) error {
	exists, err := r.ExistsByCode(ctx, res.ClientID(), res.Code())
	if err != nil {
		return err
	}
	if exists {
		return resource.ErrCodeExists
	}

	model := r.toModel(res)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return res.SetID(model.ID)
}

func (r *ResourceRepositoryImpl) Update(ctx context.Context, res *resource.Resource) error {
	if res.ID() == 0 {
		return resource.ErrResourceNotFound
	}

	model := r.toModel(res)
	model.ID = res.ID()

	result := r.db.WithContext(ctx).Model(&models.ResourceModel{}).
		Where("id = ?", res.ID()).
		Select("name", "resource_type", "parent_id", "sort_order", "enabled", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update resource: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return resource.ErrResourceNotFound
	}
	return nil
}

func (r *ResourceRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ResourceModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete resource: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return resource.ErrResourceNotFound
	}
	return nil
}

func (r *ResourceRepositoryImpl) GetByID(ctx context.Context, id uint) (*resource.Resource, error) {
	var model models.ResourceModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return r.toDomain(&model)
}

// ListAll returns every enabled resource. Disabled rows are dropped
// before tree assembly, so an enabled child of a disabled parent
// re-roots: it stays directly grantable, but grants no longer inherit
// to it through the disabled node.
func (r *ResourceRepositoryImpl) ListAll(ctx context.Context) ([]*resource.Resource, error) {
	var resourceModels []*models.ResourceModel
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("client_id, sort_order, id").
		Find(&resourceModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return r.toDomainSlice(resourceModels)
}

func (r *ResourceRepositoryImpl) ListByClient(ctx context.Context, clientID uint) ([]*resource.Resource, error) {
	var resourceModels []*models.ResourceModel
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND enabled = ?", clientID, true).
		Order("sort_order, id").
		Find(&resourceModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list client resources: %w", err)
	}
	return r.toDomainSlice(resourceModels)
}

func (r *ResourceRepositoryImpl) ExistsByCode(ctx context.Context, clientID uint, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ResourceModel{}).
		Where("client_id = ? AND code = ?", clientID, code).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check resource code: %w", err)
	}
	return count > 0, nil
}

func (r *ResourceRepositoryImpl) toModel(res *resource.Resource) *models.ResourceModel {
	return &models.ResourceModel{
		ClientID:     res.ClientID(),
		Code:         res.Code(),
		Name:         res.Name(),
		ResourceType: res.ResourceType(),
		ParentID:     res.ParentID(),
		SortOrder:    res.SortOrder(),
		Enabled:      res.Enabled(),
		CreatedAt:    res.CreatedAt(),
		UpdatedAt:    res.UpdatedAt(),
	}
}

func (r *ResourceRepositoryImpl) toDomain(model *models.ResourceModel) (*resource.Resource, error) {
	return resource.ReconstructResource(
		model.ID,
		model.ClientID,
		model.Code,
		model.Name,
		model.ResourceType,
		model.ParentID,
		model.SortOrder,
		model.Enabled,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (r *ResourceRepositoryImpl) toDomainSlice(resourceModels []*models.ResourceModel) ([]*resource.Resource, error) {
	resources := make([]*resource.Resource, 0, len(resourceModels))
	for _, model := range resourceModels {
		res, err := r.toDomain(model)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, nil
}
