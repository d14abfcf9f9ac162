package types

// TokenRequest exchanges API client credentials for a bearer token.
type TokenRequest struct {
	ClientID     string `json:"client_id" validate:"required,min=1"`
	ClientSecret string `json:"client_secret" validate:"required,min=8"`
}

// TokenResponse is returned by a successful token exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Validate validates the TokenRequest using the shared validator.
func (r *TokenRequest) Validate() error {
	return validate.Struct(r)
}
