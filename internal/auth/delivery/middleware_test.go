package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authdomain "looppilot/internal/auth/domain"
	authdto "looppilot/internal/auth/dto"
	"looppilot/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	users map[string]*authdomain.User
}

func (s *stubAuth) Register(*authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	return nil, nil
}
func (s *stubAuth) Login(*authdto.LoginRequest) (*authdto.TokenResponse, error) { return nil, nil }
func (s *stubAuth) RefreshToken(string) (*authdto.TokenResponse, error) { return nil, nil }
func (s *stubAuth) Logout(string) error { return nil }
func (s *stubAuth) SignState(string) (string, error) { return "", nil }
func (s *stubAuth) VerifyState(string) (string, error) { return "", nil }

func (s *stubAuth) ValidateToken(token string) (*authdomain.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, apperr.Unauthenticated("invalid or expired token")
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := &stubAuth{users: map[string]*authdomain.User{
		"good": {ID: "u1", Email: "ada@example.com"},
	}}
	r := gin.New()
	r.GET("/me", AuthMiddleware(auth), NewAuthHandler(auth).Me)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}

	r := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "unauthenticated", body["error"])
			}
		})
	}
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var user authdomain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "u1", user.ID)
}
