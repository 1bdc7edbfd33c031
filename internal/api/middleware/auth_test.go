package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/moments/internal/auth"
)

func viewerRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(tokens, "__moments_token"))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, auth.ViewerID(c.Request.Context()))
	})
	return r
}

func TestAuthSources(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	cookieTok, err := tokens.Sign("from-cookie", "c")
	require.NoError(t, err)
	headerTok, err := tokens.Sign("from-header", "h")
	require.NoError(t, err)
	r := viewerRouter(tokens)

	cases := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "anonymous", want: ""},
		{name: "bearer", header: "Bearer " + headerTok, want: "from-header"},
		{name: "cookie wins", cookie: cookieTok, header: "Bearer " + headerTok, want: "from-cookie"},
		{name: "garbage", header: "Bearer not-a-jwt", want: ""},
		{name: "wrong scheme", header: "Basic " + headerTok, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "__moments_token", Value: tc.cookie})
			}
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestAuthRejectsForeignSecret(t *testing.T) {
	other := auth.NewTokenManager("other-secret", time.Hour)
	tok, err := other.Sign("intruder", "x")
	require.NoError(t, err)

	r := viewerRouter(auth.NewTokenManager("secret", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "", w.Body.String())
}
