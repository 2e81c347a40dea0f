package models

import (
	"time"

	"github.com/aegis-idp/aegis/internal/shared/constants"
)

type ResourceModel struct {
	ID           uint   `gorm:"primarykey"`
	ClientID     uint   `gorm:"not null;uniqueIndex:idx_resource_client_code"`
	Code         string `gorm:"not null;size:128;uniqueIndex:idx_resource_client_code"`
	Name         string `gorm:"not null;size:128"`
	ResourceType string `gorm:"size:32"`
	ParentID     *uint  `gorm:"index"`
	SortOrder    int    `gorm:"not null;default:0"`
	Enabled      bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ResourceModel) TableName() string {
	return constants.TableResources
}
