package dto

import "time"

// QueryPermissionsRequest is the connect-endpoint payload asking "what can
// this token holder do".
type QueryPermissionsRequest struct {
	ClientID     string `json:"clientId" binding:"required"`
	ClientSecret string `json:"clientSecret" binding:"required"`
	IDToken      string `json:"idToken"`
	AccessToken  string `json:"accessToken" binding:"required"`
	SystemID     string `json:"systemId"`
}

// CheckPermissionRequest asks "can this token holder do X on resource Y".
// Scopes defaults to the full standard set when omitted.
type CheckPermissionRequest struct {
	ClientID     string   `json:"clientId" binding:"required"`
	ClientSecret string   `json:"clientSecret" binding:"required"`
	IDToken      string   `json:"idToken"`
	AccessToken  string   `json:"accessToken" binding:"required"`
	Resource     string   `json:"resource" binding:"required"`
	Scopes       []string `json:"scopes"`
}

type ScopeResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ProvenanceResponse struct {
	Source     string    `json:"source"`
	SourceID   string    `json:"sourceId"`
	SourceName string    `json:"sourceName,omitempty"`
	GrantedAt  time.Time `json:"grantedAt"`
}

type ResourcePermissionResponse struct {
	ResourceID   uint                 `json:"resourceId"`
	ResourceCode string               `json:"resourceCode"`
	Scopes       []ScopeResponse      `json:"scopes"`
	Sources      []ProvenanceResponse `json:"sources"`
}

// SystemPermissionsResponse groups resolved resources under the client
// application that owns them.
type SystemPermissionsResponse struct {
	SystemID   string                       `json:"systemId"`
	SystemName string                       `json:"systemName"`
	Resources  []ResourcePermissionResponse `json:"resources"`
}

type QueryPermissionsResponse struct {
	UserID          string                      `json:"userId"`
	UserName        string                      `json:"userName"`
	UserEnglishName string                      `json:"userEnglishName,omitempty"`
	Permissions     []SystemPermissionsResponse `json:"permissions"`
}

// CheckPermissionResponse maps each requested scope code onto whether the
// token holder may perform it.
type CheckPermissionResponse struct {
	Resource string          `json:"resource"`
	Scopes   map[string]bool `json:"scopes"`
}
