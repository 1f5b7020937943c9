package httpserver

import (
	"net/http"

	"boutique-storefront/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "storefront_session"
	sessionCtxKey = "storefront.session"
	cookieMaxAge  = 60 * 60 * 24 * 90
)

// sessionMiddleware resolves the browser session from its cookie, issuing a
// new id when the cookie is missing or malformed.
func sessionMiddleware(sessions sessionStore, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || !session.ValidID(id) {
			id = session.NewID()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, cookieMaxAge, "/", "", secure, true)
		c.Set(sessionCtxKey, sessions.Get(c.Request.Context(), id))
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionCtxKey).(*session.Session)
}
