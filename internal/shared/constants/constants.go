// Package constants defines shared constant values used across the application.
package constants

// Pagination defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Context keys set by middleware
const (
	ContextKeyRequestID = "request_id"
	ContextKeyClientID  = "client_id"
)

// Table names
const (
	TableScopes        = "permission_scopes"
	TableResources     = "permission_resources"
	TableGrants        = "permission_grants"
	TableRevokedTokens = "revoked_tokens"
	TableClients       = "registered_clients"
	TableMemberships   = "subject_memberships"
)
