// Package authz provides a Go SDK for the permission query/check and
// token introspection endpoints.
package authz

import "fmt"

// QueryRequest asks for everything the token holder may do, optionally
// narrowed to one system.
type QueryRequest struct {
	AccessToken string `json:"accessToken"`
	IDToken     string `json:"idToken,omitempty"`
	SystemID    string `json:"systemId,omitempty"`
}

// CheckRequest asks whether the token holder has the given scopes on
// one resource.
type CheckRequest struct {
	AccessToken string   `json:"accessToken"`
	IDToken     string   `json:"idToken,omitempty"`
	Resource    string   `json:"resource"`
	Scopes      []string `json:"scopes"`
}

// Scope is a scope code with its display name.
type Scope struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Provenance records which grant produced a scope on a resource.
type Provenance struct {
	Source     string `json:"source"`
	SourceID   string `json:"sourceId"`
	SourceName string `json:"sourceName,omitempty"`
	GrantedAt  string `json:"grantedAt"`
}

// ResourcePermission is the effective scope set on one resource.
type ResourcePermission struct {
	ResourceID   uint         `json:"resourceId"`
	ResourceCode string       `json:"resourceCode"`
	Scopes       []Scope      `json:"scopes"`
	Sources      []Provenance `json:"sources"`
}

// SystemPermissions groups resource permissions by owning system.
type SystemPermissions struct {
	SystemID   string               `json:"systemId"`
	SystemName string               `json:"systemName"`
	Resources  []ResourcePermission `json:"resources"`
}

// PermissionSet is the full query result for one subject.
type PermissionSet struct {
	UserID          string              `json:"userId"`
	UserName        string              `json:"userName"`
	UserEnglishName string              `json:"userEnglishName,omitempty"`
	Permissions     []SystemPermissions `json:"permissions"`
}

// CheckResult is the per-scope verdict for one resource.
type CheckResult struct {
	Allowed  bool            `json:"allowed"`
	Resource string          `json:"resource"`
	Scopes   map[string]bool `json:"scopes"`
}

// Introspection is the standard introspection verdict.
type Introspection struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Iat       int64  `json:"iat,omitempty"`
	JTI       string `json:"jti,omitempty"`
}

// APIError is a non-2xx answer from the service, carrying the flat
// error pair the endpoints return.
type APIError struct {
	StatusCode  int
	Code        string `json:"error"`
	Description string `json:"errorDescription"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authz api error: status=%d error=%s description=%s", e.StatusCode, e.Code, e.Description)
}

// Retryable reports whether the caller may retry the same request.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 503
}
