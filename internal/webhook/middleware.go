package webhook

import (
	"crypto/subtle"
	"net/http"

	"salesmap_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// secretHeader carries the shared secret the host platform is configured to
// send with every webhook delivery.
const secretHeader = "X-Webhook-Secret"

// SecretAuthMiddleware validates the shared-secret header on incoming
// webhook deliveries. The comparison is constant-time.
func SecretAuthMiddleware(cfg config.WebhookConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(secretHeader)
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing webhook secret"})
			return
		}

		expected := cfg.GetWebhookSecret()
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
			return
		}

		c.Next()
	}
}
