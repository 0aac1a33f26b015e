package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/oauth"
	"github.com/mbolis/quick-swipe/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseBuffer(t *testing.T) {
	buf := NewResponseBuffer()
	assert.Equal(t, http.StatusOK, buf.Status())

	buf.Header().Set("X-Test", "1")
	buf.WriteHeader(http.StatusTeapot)
	buf.WriteHeader(http.StatusOK)
	_, err := buf.Write([]byte("short and stout"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, buf.Status())
	assert.Equal(t, "short and stout", string(buf.Body()))

	rec := httptest.NewRecorder()
	require.NoError(t, buf.Flush(rec))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Test"))
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestLogStatusMsg(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	LogStatusMsg(rec, req, http.StatusBadRequest, log.DebugLevel, "test.code", "bad %s", "input")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Bad Request","message":"bad input"}`, rec.Body.String())
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

type fakeAccounts struct {
	expiration time.Time
	consumeErr error
}

func (f *fakeAccounts) CheckPassword(ctx context.Context, username, password string) error {
	if username == "admin" && password == "pw" {
		return nil
	}
	return errors.New("bad credentials")
}

func (f *fakeAccounts) StoreToken(ctx context.Context, username, tokenID, refreshTokenID string, expiration time.Time) error {
	f.expiration = expiration
	return nil
}

func (f *fakeAccounts) ConsumeToken(ctx context.Context, username, tokenID, refreshTokenID string) (time.Time, error) {
	return f.expiration, f.consumeErr
}

func TestCredentialsVerifier(t *testing.T) {
	accounts := &fakeAccounts{}
	cv := CredentialsVerifier(accounts)
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	assert.NoError(t, cv.ValidateUser("admin", "pw", "", req))
	assert.Error(t, cv.ValidateUser("admin", "nope", "", req))
	assert.Error(t, cv.ValidateClient("c", "s", "", req))

	claims, err := cv.AddClaims(oauth.BearerToken, "admin", "t", "", req)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims["roles"])

	require.NoError(t, cv.StoreTokenID(oauth.BearerToken, "admin", "t", "r"))
	assert.True(t, accounts.expiration.After(time.Now()))
	assert.NoError(t, cv.ValidateTokenID(oauth.BearerToken, "admin", "t", "r"))

	accounts.expiration = time.Now().Add(-time.Minute)
	assert.Error(t, cv.ValidateTokenID(oauth.BearerToken, "admin", "t", "r"))

	accounts.consumeErr = errors.New("gone")
	assert.Error(t, cv.ValidateTokenID(oauth.BearerToken, "admin", "t", "r"))
}
