// Package seeds populates immutable reference data.
package seeds

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/infrastructure/persistence/models"
)

// SeedScopes upserts the deployment's scope catalog. Safe to run on every
// startup.
func SeedScopes(db *gorm.DB) error {
	rows := make([]models.ScopeModel, 0, len(vo.ScopeCatalog()))
	for i, code := range vo.ScopeCatalog() {
		rows = append(rows, models.ScopeModel{
			Code: string(code),
			Name: vo.ScopeName(code),
			Sort: i,
		})
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "sort"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to seed scope catalog: %w", err)
	}
	return nil
}
