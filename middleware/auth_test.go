package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"grocery-store/models"
	"grocery-store/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(tokens *utils.TokenIssuer, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(tokens)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt(ContextUserID),
			"role":    c.GetString(ContextUserRole),
		})
	})
	r.GET("/private", handlers...)
	return r
}

func request(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenIssuer("middleware-secret", "1h")
	r := newProtectedRouter(tokens)

	token, err := tokens.GenerateToken(7, "cathy@example.com", models.RoleCustomer)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := request(r, "Bearer "+token)
	assert.JSONEq(t, `{"user_id":7,"role":"customer"}`, w.Body.String())
}

func TestAuthMiddlewareRejectsForeignSecret(t *testing.T) {
	r := newProtectedRouter(utils.NewTokenIssuer("ours", "1h"))
	token, err := utils.NewTokenIssuer("theirs", "1h").GenerateToken(1, "x@example.com", models.RoleOwner)
	require.NoError(t, err)

	w := request(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestRequireRoles(t *testing.T) {
	tokens := utils.NewTokenIssuer("middleware-secret", "1h")
	r := newProtectedRouter(tokens, models.RoleOwner, models.RoleCarrier)

	carrier, err := tokens.GenerateToken(2, "k@example.com", models.RoleCarrier)
	require.NoError(t, err)
	customer, err := tokens.GenerateToken(3, "c@example.com", models.RoleCustomer)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, request(r, "Bearer "+carrier).Code)

	w := request(r, "Bearer "+customer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Required role: owner or carrier")
}
