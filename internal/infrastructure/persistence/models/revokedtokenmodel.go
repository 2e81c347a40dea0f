package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/aegis-idp/aegis/internal/shared/constants"
)

type RevokedTokenModel struct {
	ID uint `gorm:"primarykey"`
	// JTI carries the uniqueness constraint that makes revocation
	// idempotent under concurrent writers.
	JTI       string `gorm:"not null;size:255;uniqueIndex"`
	JTIHash   string `gorm:"not null;size:64;index"`
	SubjectID string `gorm:"size:64;index"`
	ClientID  string `gorm:"size:64"`
	TokenType string `gorm:"size:32"`
	// Claims is a best-effort snapshot of the token claims at revocation
	// time, kept for operator forensics.
	Claims    datatypes.JSON
	ExpiresAt time.Time `gorm:"index"`
	RevokedAt time.Time
	Reason    string `gorm:"size:255"`
	RevokedBy string `gorm:"size:64"`
}

func (RevokedTokenModel) TableName() string {
	return constants.TableRevokedTokens
}
