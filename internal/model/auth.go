package model

// TokenRequest is the form body of POST /token.
type TokenRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (r *TokenRequest) Validate() error {
	return validate.Struct(r)
}

// TokenResponse is returned by a successful POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
