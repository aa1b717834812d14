package util

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookieName    = "session"
	OAuthStateCookieName = "oauthState"
)

// SetSessionCookie stores the session token in an http only cookie.
func SetSessionCookie(c *gin.Context, token string, expiration time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(expiration.Seconds()), "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

// SetStateCookie stores the OAuth2 state for the duration of a sign in.
func SetStateCookie(c *gin.Context, state string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(OAuthStateCookieName, state, int((10 * time.Minute).Seconds()), "/", "", secure, true)
}

func ClearStateCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(OAuthStateCookieName, "", -1, "/", "", secure, true)
}
