package dto

import "time"

// CreateGrantRequest creates a grant for a subject on one resource.
type CreateGrantRequest struct {
	SubjectType       string   `json:"subjectType" binding:"required"`
	SubjectID         string   `json:"subjectId" binding:"required"`
	SubjectName       string   `json:"subjectName"`
	ResourceID        uint     `json:"resourceId" binding:"required"`
	Scopes            []string `json:"scopes" binding:"required"`
	InheritToChildren bool     `json:"inheritToChildren"`
	ExpiresAt         *string  `json:"expiresAt"`
	GrantedBy         string   `json:"grantedBy"`
}

// UpdateGrantRequest replaces mutable grant attributes. Scope updates
// replace the whole set; grants never accumulate duplicate rows.
type UpdateGrantRequest struct {
	Scopes            []string `json:"scopes"`
	InheritToChildren *bool    `json:"inheritToChildren"`
	ExpiresAt         *string  `json:"expiresAt"`
	Enabled           *bool    `json:"enabled"`
}

type GrantResponse struct {
	ID                uint       `json:"id"`
	SubjectType       string     `json:"subjectType"`
	SubjectID         string     `json:"subjectId"`
	SubjectName       string     `json:"subjectName,omitempty"`
	ResourceID        uint       `json:"resourceId"`
	Scopes            []string   `json:"scopes"`
	InheritToChildren bool       `json:"inheritToChildren"`
	Enabled           bool       `json:"enabled"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	GrantedBy         string     `json:"grantedBy,omitempty"`
	GrantedAt         time.Time  `json:"grantedAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type ListGrantsRequest struct {
	SubjectType string `form:"subjectType" validate:"omitempty,oneof=user group organization role"`
	SubjectID   string `form:"subjectId"`
	ResourceID  uint   `form:"resourceId"`
	EnabledOnly bool   `form:"enabledOnly"`
	Page        int    `form:"page" validate:"gte=0"`
	PageSize    int    `form:"pageSize" validate:"gte=0,lte=100"`
}

type ListGrantsResponse struct {
	Grants []GrantResponse `json:"grants"`
	Total  int64           `json:"total"`
}

// CreateClientRequest registers a downstream client system.
type CreateClientRequest struct {
	ClientID   string `json:"clientId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Management bool   `json:"management"`
}

// ClientResponse never carries the secret hash. The plaintext secret is
// present only in the creation response, exactly once.
type ClientResponse struct {
	ID           uint      `json:"id"`
	ClientID     string    `json:"clientId"`
	Name         string    `json:"name"`
	ClientSecret string    `json:"clientSecret,omitempty"`
	Management   bool      `json:"management"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateResourceRequest adds a node to a client's resource forest.
type CreateResourceRequest struct {
	ClientID     uint   `json:"clientId" binding:"required"`
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	ResourceType string `json:"resourceType"`
	ParentID     *uint  `json:"parentId"`
	SortOrder    int    `json:"sortOrder"`
}

type ResourceResponse struct {
	ID           uint   `json:"id"`
	ClientID     uint   `json:"clientId"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	ResourceType string `json:"resourceType,omitempty"`
	ParentID     *uint  `json:"parentId,omitempty"`
	SortOrder    int    `json:"sortOrder"`
	Enabled      bool   `json:"enabled"`
}

type ScopeCatalogEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
