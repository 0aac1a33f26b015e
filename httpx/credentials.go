package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/oauth"
	"github.com/mbolis/quick-swipe/log"
)

// AccountStore is the part of the database the OAuth verifier needs.
type AccountStore interface {
	CheckPassword(ctx context.Context, username, password string) error
	StoreToken(ctx context.Context, username, tokenID, refreshTokenID string, expiration time.Time) error
	ConsumeToken(ctx context.Context, username, tokenID, refreshTokenID string) (time.Time, error)
}

const (
	RoleAdmin = "admin"

	refreshTokenTTL = 8760 * time.Hour
)

var errCannotRefresh = errors.New("could not refresh")

type credentialsVerifier struct {
	accounts AccountStore
}

func CredentialsVerifier(accounts AccountStore) oauth.CredentialsVerifier {
	return &credentialsVerifier{accounts}
}

func (cv *credentialsVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	err := cv.accounts.CheckPassword(r.Context(), username, password)
	if err != nil {
		log.Debugf("login.validate_user: %s: %s", username, err)
	}
	return err
}
func (cv *credentialsVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	return cv.accounts.StoreToken(context.Background(), credential, tokenID, refreshTokenID, time.Now().Add(refreshTokenTTL))
}
func (cv *credentialsVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	expiration, err := cv.accounts.ConsumeToken(context.Background(), credential, tokenID, refreshTokenID)
	if err != nil {
		log.Debugf("login.refresh: %s: %s", credential, err)
		return errCannotRefresh
	}
	if expiration.Before(time.Now()) {
		return errCannotRefresh
	}
	return nil
}
func (*credentialsVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{"roles": RoleAdmin}, nil
}
func (*credentialsVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}
func (*credentialsVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.New("not supported")
}

// NewBearerServer issues access tokens for admin accounts, signed with secret.
func NewBearerServer(accounts AccountStore, secret string, ttl time.Duration) *oauth.BearerServer {
	return oauth.NewBearerServer(secret, ttl, CredentialsVerifier(accounts), nil)
}
