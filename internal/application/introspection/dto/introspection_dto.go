package dto

// IntrospectRequest mirrors the RFC 7662 introspection form fields.
type IntrospectRequest struct {
	Token         string `form:"token" json:"token" binding:"required"`
	TokenTypeHint string `form:"token_type_hint" json:"token_type_hint"`
}

// RevokeRequest mirrors the RFC 7009 revocation form fields.
type RevokeRequest struct {
	Token         string `form:"token" json:"token" binding:"required"`
	TokenTypeHint string `form:"token_type_hint" json:"token_type_hint"`
}

// IntrospectionResult is the provider's introspection verdict, before
// and after the local revocation overlay.
type IntrospectionResult struct {
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
