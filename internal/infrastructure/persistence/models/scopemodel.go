package models

import (
	"github.com/aegis-idp/aegis/internal/shared/constants"
)

// ScopeModel is immutable reference data: the deployment's scope catalog
// with display names, seeded at migration time.
type ScopeModel struct {
	ID   uint   `gorm:"primarykey"`
	Code string `gorm:"not null;size:8;uniqueIndex"`
	Name string `gorm:"not null;size:32"`
	Sort int    `gorm:"not null;default:0"`
}

func (ScopeModel) TableName() string {
	return constants.TableScopes
}
