package models

import (
	"time"

	"github.com/aegis-idp/aegis/internal/shared/constants"
)

// MembershipModel is the synchronized read model over the external
// membership store: one row per (user, container) edge. Rows are written
// by the directory sync job, read-only here.
type MembershipModel struct {
	ID            uint   `gorm:"primarykey"`
	UserID        string `gorm:"not null;size:64;uniqueIndex:idx_membership_edge"`
	ContainerType string `gorm:"not null;size:20;uniqueIndex:idx_membership_edge"`
	ContainerID   string `gorm:"not null;size:64;uniqueIndex:idx_membership_edge"`
	ContainerName string `gorm:"size:128"`
	CreatedAt     time.Time
}

func (MembershipModel) TableName() string {
	return constants.TableMemberships
}
