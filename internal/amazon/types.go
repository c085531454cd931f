package amazon

// Secret names in the secret store. Each stored document holds a JSON field of
// the same name.
const (
	SecretClientSecret = "client_secret"
	SecretClientID     = "client_id"
	SecretRefreshToken = "refresh_token"
)

// SecretNames lists the secrets in the order they are resolved
var SecretNames = []string{SecretClientSecret, SecretClientID, SecretRefreshToken}

// CredentialSet holds the Login with Amazon application credentials
type CredentialSet struct {
	ClientSecret string `json:"client_secret" validate:"required"`
	ClientID     string `json:"client_id" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AccessTokenResult is the successful output of the token exchange
type AccessTokenResult struct {
	AccessToken string `json:"access_token"`
	ClientID    string `json:"client_id"`
}

// TokenResponse is the subset of the Login with Amazon token response we read
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}
