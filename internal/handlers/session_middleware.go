package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/payways/internal/service"
)

const (
	SessionCookie = "payways_session"
	sessionKey    = "payways.session"
)

// RequireSession resolves the session cookie and aborts with 401 when there
// is no live session.
func RequireSession(sessions *service.SessionController) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)
		s, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).Account().IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": service.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *service.Session {
	return c.MustGet(sessionKey).(*service.Session)
}
