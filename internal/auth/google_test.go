package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenInfoServer(t *testing.T, status int, body map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "good-token", r.URL.Query().Get("id_token"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenInfoVerifier(t *testing.T) {
	srv := tokenInfoServer(t, http.StatusOK, map[string]string{
		"aud":            "client-1",
		"email":          "jane.doe@gmail.com",
		"email_verified": "true",
		"given_name":     "Jane",
		"family_name":    "Doe",
		"picture":        "https://lh3.googleusercontent.com/a/jane",
	})

	v := NewTokenInfoVerifier(srv.Client(), srv.URL, "client-1")
	id, err := v.Verify(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@gmail.com", id.Email)
	assert.True(t, id.EmailVerified)
	assert.Equal(t, "Jane Doe", id.FullName())
	assert.Equal(t, "https://lh3.googleusercontent.com/a/jane", id.Picture)
}

func TestTokenInfoVerifierAudienceMismatch(t *testing.T) {
	srv := tokenInfoServer(t, http.StatusOK, map[string]string{"aud": "someone-else", "email": "x@y.z", "email_verified": "true"})

	v := NewTokenInfoVerifier(srv.Client(), srv.URL, "client-1")
	_, err := v.Verify(context.Background(), "good-token")
	assert.Error(t, err)
}

func TestTokenInfoVerifierRejectedToken(t *testing.T) {
	srv := tokenInfoServer(t, http.StatusBadRequest, map[string]string{"error_description": "Invalid Value"})

	v := NewTokenInfoVerifier(srv.Client(), srv.URL, "")
	_, err := v.Verify(context.Background(), "good-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Value")
}

func TestIdentityFullName(t *testing.T) {
	assert.Equal(t, "Jane", (&Identity{GivenName: "Jane"}).FullName())
	assert.Equal(t, "Jane Q", (&Identity{Name: "Jane Q"}).FullName())
}
