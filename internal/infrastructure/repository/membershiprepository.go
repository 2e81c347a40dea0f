package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/aegis-idp/aegis/internal/domain/permission"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/infrastructure/persistence/models"
)

type MembershipRepositoryImpl struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) permission.MembershipRepository {
	return &MembershipRepositoryImpl{db: db}
}

func (r *MembershipRepositoryImpl) ListForUser(ctx context.Context, userID string) ([]vo.Subject, error) {
	var rows []*models.MembershipModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	subjects := make([]vo.Subject, 0, len(rows))
	for _, row := range rows {
		subjectType := vo.SubjectType(row.ContainerType)
		if !subjectType.IsValid() {
			continue
		}
		subjects = append(subjects, vo.Subject{Type: subjectType, ID: row.ContainerID})
	}
	return subjects, nil
}
