package migration

import (
	"github.com/aegis-idp/aegis/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists every model the auto-migrate strategy manages.
func AutoMigrateModels() []any {
	return []any{
		&models.ScopeModel{},
		&models.ResourceModel{},
		&models.GrantModel{},
		&models.RevokedTokenModel{},
		&models.ClientModel{},
		&models.MembershipModel{},
	}
}
