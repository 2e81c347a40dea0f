package models

import (
	"time"

	"github.com/aegis-idp/aegis/internal/shared/constants"
)

type ClientModel struct {
	ID         uint   `gorm:"primarykey"`
	ClientID   string `gorm:"not null;size:64;uniqueIndex"`
	Name       string `gorm:"not null;size:128"`
	SecretHash string `gorm:"not null;size:128"`
	Management bool   `gorm:"not null;default:false"`
	Enabled    bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ClientModel) TableName() string {
	return constants.TableClients
}
