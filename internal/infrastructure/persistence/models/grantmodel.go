package models

import (
	"time"

	"github.com/aegis-idp/aegis/internal/shared/constants"
)

type GrantModel struct {
	ID          uint   `gorm:"primarykey"`
	SubjectType string `gorm:"not null;size:20;index:idx_grant_subject"`
	SubjectID   string `gorm:"not null;size:64;index:idx_grant_subject"`
	SubjectName string `gorm:"size:128"`
	ResourceID  uint   `gorm:"not null;index"`
	// Scopes holds the canonical compact encoding ("@r@c@u"); legacy rows
	// may still carry JSON arrays, which the mapper tolerates.
	Scopes            string `gorm:"not null;size:64"`
	InheritToChildren bool   `gorm:"not null;default:false"`
	Enabled           bool   `gorm:"not null;default:true"`
	ExpiresAt         *time.Time
	GrantedBy         string `gorm:"size:64"`
	GrantedAt         time.Time
	UpdatedAt         time.Time
}

func (GrantModel) TableName() string {
	return constants.TableGrants
}
