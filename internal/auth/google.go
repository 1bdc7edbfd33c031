package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrEmailNotVerified = errors.New("email not verified by google")

// Identity Google 返回的用户资料
type Identity struct {
	Email         string
	EmailVerified bool
	Name          string
	GivenName     string
	FamilyName    string
	Picture       string
}

// FullName given + family，缺 family 时只用 given，二者皆空时退回 name
func (i *Identity) FullName() string {
	switch {
	case i.GivenName != "" && i.FamilyName != "":
		return i.GivenName + " " + i.FamilyName
	case i.GivenName != "":
		return i.GivenName
	default:
		return i.Name
	}
}

// IdentityVerifier 校验 Google ID token
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// TokenInfoVerifier asks Google's tokeninfo endpoint to validate the token.
type TokenInfoVerifier struct {
	client   *http.Client
	endpoint string
	clientID string
}

func NewTokenInfoVerifier(client *http.Client, endpoint, clientID string) *TokenInfoVerifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &TokenInfoVerifier{client: client, endpoint: endpoint, clientID: clientID}
}

type tokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	ErrorDesc     string `json:"error_description"`
}

func (v *TokenInfoVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	u, err := url.Parse(v.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("id_token", idToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode tokeninfo: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo status %d: %s", resp.StatusCode, info.ErrorDesc)
	}
	if v.clientID != "" && info.Aud != v.clientID {
		return nil, fmt.Errorf("token audience %q does not match client id", info.Aud)
	}
	return &Identity{
		Email:         info.Email,
		EmailVerified: info.EmailVerified == "true",
		Name:          info.Name,
		GivenName:     info.GivenName,
		FamilyName:    info.FamilyName,
		Picture:       info.Picture,
	}, nil
}

// JWKSVerifier validates the ID token locally against Google's published keys.
type JWKSVerifier struct {
	cache    *jwk.Cache
	jwksURL  string
	clientID string
}

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

func NewJWKSVerifier(ctx context.Context, jwksURL, clientID string) (*JWKSVerifier, error) {
	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("register jwks: %w", err)
	}
	return &JWKSVerifier{cache: cache, jwksURL: jwksURL, clientID: clientID}, nil
}

func (v *JWKSVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	set, err := v.cache.Get(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	opts := []jwt.ParseOption{jwt.WithKeySet(set), jwt.WithValidate(true)}
	if v.clientID != "" {
		opts = append(opts, jwt.WithAudience(v.clientID))
	}
	tok, err := jwt.Parse([]byte(idToken), opts...)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	if !validIssuer(tok.Issuer()) {
		return nil, fmt.Errorf("unexpected issuer %q", tok.Issuer())
	}

	claims := tok.PrivateClaims()
	id := &Identity{
		Email:      stringClaim(claims, "email"),
		Name:       stringClaim(claims, "name"),
		GivenName:  stringClaim(claims, "given_name"),
		FamilyName: stringClaim(claims, "family_name"),
		Picture:    stringClaim(claims, "picture"),
	}
	switch ev := claims["email_verified"].(type) {
	case bool:
		id.EmailVerified = ev
	case string:
		id.EmailVerified = ev == "true"
	}
	return id, nil
}

func validIssuer(iss string) bool {
	for _, s := range googleIssuers {
		if strings.EqualFold(iss, s) {
			return true
		}
	}
	return false
}

func stringClaim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
