package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookieName identifies an anonymous browsing session. The cookie is
// issued on first contact and drives recently-viewed tracking for guests and
// logged-in users alike.
const SessionCookieName = "bzr_session"

const sessionCookieMaxAge = 30 * 24 * 60 * 60 // 30 days

// SessionMiddleware ensures every request carries a browsing session ID
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(SessionCookieName, sessionID, sessionCookieMaxAge, "/", "", false, true)
		}
		c.Set("session_id", sessionID)
		c.Next()
	}
}

// GetSessionID extracts the browsing session ID from context
func GetSessionID(c *gin.Context) string {
	return c.GetString("session_id")
}
