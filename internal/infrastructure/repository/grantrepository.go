package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aegis-idp/aegis/internal/domain/permission"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/infrastructure/persistence/models"
	"github.com/aegis-idp/aegis/internal/shared/biztime"
	"github.com/aegis-idp/aegis/internal/shared/constants"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

type GrantRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewGrantRepository(db *gorm.DB, log logger.Interface) permission.GrantRepository {
	return &GrantRepositoryImpl{
		db:     db,
		logger: log.Named("grant_repository"),
	}
}

func (r *GrantRepositoryImpl) Create(ctx context.Context, grant *permission.Grant) error {
	// one active grant per (subject, resource): replace, never append
	existing, err := r.GetActiveBySubjectAndResource(ctx, grant.Subject(), grant.ResourceID())
	if err != nil {
		return err
	}
	if existing != nil {
		return permission.ErrDuplicateActiveGrant
	}

	model := r.toModel(grant)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create grant: %w", err)
	}

	return grant.SetID(model.ID)
}

func (r *GrantRepositoryImpl) Update(ctx context.Context, grant *permission.Grant) error {
	if grant.ID() == 0 {
		return permission.ErrGrantNotFound
	}

	model := r.toModel(grant)
	model.ID = grant.ID()

	result := r.db.WithContext(ctx).Model(&models.GrantModel{}).
		Where("id = ?", grant.ID()).
		Select("scopes", "inherit_to_children", "enabled", "expires_at", "subject_name", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update grant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return permission.ErrGrantNotFound
	}
	return nil
}

func (r *GrantRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.GrantModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete grant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return permission.ErrGrantNotFound
	}
	return nil
}

func (r *GrantRepositoryImpl) GetByID(ctx context.Context, id uint) (*permission.Grant, error) {
	var model models.GrantModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}
	return r.toDomain(&model)
}

func (r *GrantRepositoryImpl) GetActiveBySubjectAndResource(ctx context.Context, subject vo.Subject, resourceID uint) (*permission.Grant, error) {
	var model models.GrantModel
	err := r.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ? AND resource_id = ? AND enabled = ?",
			string(subject.Type), subject.ID, resourceID, true).
		Where("expires_at IS NULL OR expires_at > ?", biztime.NowUTC()).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active grant: %w", err)
	}
	return r.toDomain(&model)
}

func (r *GrantRepositoryImpl) ListActiveBySubjects(ctx context.Context, subjects []vo.Subject) ([]*permission.Grant, error) {
	if len(subjects) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).Model(&models.GrantModel{}).
		Where("enabled = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", biztime.NowUTC())

	// (subject_type, subject_id) IN (...) built as an OR chain for
	// portability across mysql and sqlite
	sub := r.db.Session(&gorm.Session{NewDB: true})
	cond := sub
	for i, s := range subjects {
		if i == 0 {
			cond = cond.Where("subject_type = ? AND subject_id = ?", string(s.Type), s.ID)
		} else {
			cond = cond.Or("subject_type = ? AND subject_id = ?", string(s.Type), s.ID)
		}
	}
	query = query.Where(cond)

	var grantModels []*models.GrantModel
	if err := query.Order("granted_at, id").Find(&grantModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}

	grants := make([]*permission.Grant, 0, len(grantModels))
	for _, model := range grantModels {
		grant, err := r.toDomain(model)
		if err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}
	return grants, nil
}

func (r *GrantRepositoryImpl) List(ctx context.Context, filter permission.GrantFilter) ([]*permission.Grant, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.GrantModel{})

	if filter.SubjectType != "" {
		query = query.Where("subject_type = ?", string(filter.SubjectType))
	}
	if filter.SubjectID != "" {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.ResourceID != 0 {
		query = query.Where("resource_id = ?", filter.ResourceID)
	}
	if filter.EnabledOnly {
		query = query.Where("enabled = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count grants: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	var grantModels []*models.GrantModel
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Order("granted_at, id").Find(&grantModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list grants: %w", err)
	}

	grants := make([]*permission.Grant, 0, len(grantModels))
	for _, model := range grantModels {
		grant, err := r.toDomain(model)
		if err != nil {
			return nil, 0, err
		}
		grants = append(grants, grant)
	}
	return grants, total, nil
}

func (r *GrantRepositoryImpl) toModel(grant *permission.Grant) *models.GrantModel {
	return &models.GrantModel{
		SubjectType:       string(grant.Subject().Type),
		SubjectID:         grant.Subject().ID,
		SubjectName:       grant.SubjectName(),
		ResourceID:        grant.ResourceID(),
		Scopes:            grant.Scopes().String(),
		InheritToChildren: grant.InheritToChildren(),
		Enabled:           grant.Enabled(),
		ExpiresAt:         grant.ExpiresAt(),
		GrantedBy:         grant.GrantedBy(),
		GrantedAt:         grant.GrantedAt(),
		UpdatedAt:         grant.UpdatedAt(),
	}
}

func (r *GrantRepositoryImpl) toDomain(model *models.GrantModel) (*permission.Grant, error) {
	scopes, fallback := vo.ParseScopeSet(model.Scopes)
	if fallback {
		// legacy rows with unreadable encodings resolve to no permissions;
		// surface the occurrence instead of guessing
		r.logger.Warnw("unparseable scope encoding, treating as empty",
			"grant_id", model.ID,
			"raw", model.Scopes,
		)
	}

	subject := vo.Subject{Type: vo.SubjectType(model.SubjectType), ID: model.SubjectID}
	return permission.ReconstructGrant(
		model.ID,
		subject,
		model.SubjectName,
		model.ResourceID,
		scopes,
		model.InheritToChildren,
		model.Enabled,
		model.ExpiresAt,
		model.GrantedBy,
		model.GrantedAt,
		model.UpdatedAt,
	)
}
