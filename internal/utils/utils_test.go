package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserAgent(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		info := ParseUserAgent("")
		assert.Equal(t, "unknown", info.DeviceType)
		assert.Equal(t, "Unknown", info.Browser)
	})

	t.Run("Desktop Chrome", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		assert.Equal(t, "desktop", info.DeviceType)
		assert.Equal(t, "Chrome", info.Browser)
		assert.False(t, info.IsBot)
	})

	t.Run("iPad", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1")
		assert.Equal(t, "tablet", info.DeviceType)
	})
}

func TestGetRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(headers map[string]string) *gin.Context {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.RemoteAddr = "127.0.0.1:5000"
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return c
	}

	assert.Equal(t, "203.0.113.7", GetRealIP(newCtx(map[string]string{"X-Real-IP": "203.0.113.7"})))
	assert.Equal(t, "198.51.100.2", GetRealIP(newCtx(map[string]string{"X-Forwarded-For": "10.0.0.4, 198.51.100.2"})))
	assert.Equal(t, "10.0.0.4", GetRealIP(newCtx(map[string]string{"X-Forwarded-For": "10.0.0.4, 192.168.1.9"})))
	assert.Equal(t, "127.0.0.1", GetRealIP(newCtx(nil)))
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret(32)
	require.NoError(t, err)
	b, err := GenerateSecret(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
