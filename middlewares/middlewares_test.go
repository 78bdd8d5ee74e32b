package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandwichshop/ordering-api/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	role, _ := c.Get("role")
	c.JSON(http.StatusOK, gin.H{"role": role})
}

func TestStaffAuth(t *testing.T) {
	secret := []byte("test-secret")
	router := gin.New()
	router.GET("/staff", StaffAuth(secret), RequireRole("staff"), okHandler)

	token, err := utils.GenerateToken(secret, "sam", "staff", time.Hour)
	require.NoError(t, err)
	chefToken, err := utils.GenerateToken(secret, "chris", "chef", time.Hour)
	require.NoError(t, err)
	foreign, err := utils.GenerateToken([]byte("other"), "eve", "admin", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Token " + token, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"wrong role", "Bearer " + chefToken, http.StatusForbidden},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/staff", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestStaffAuthDisabledWithoutSecret(t *testing.T) {
	router := gin.New()
	router.GET("/staff", StaffAuth(nil), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/staff", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	secret := []byte("ws-secret")
	router := gin.New()
	router.GET("/ws", WebSocketAuthMiddleware(secret), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateToken(secret, "chris", "chef", time.Hour)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "chef")
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	router := gin.New()
	router.GET("/", rl.RateLimit(), okHandler)

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestHeaders(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddlewares(""), SecurityHeaders())
	router.GET("/", okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}
