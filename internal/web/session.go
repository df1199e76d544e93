package web

import (
	"net/http"

	"shopfront/internal/config"

	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	SessionToken = "JwtToken"
	FlashSuccess = "TempSuccess"
	FlashError   = "TempError"
)

// NewSessions creates the cookie-backed session manager. Session data lives
// in the process; a restart signs every visitor out.
func NewSessions(cfg config.SessionConfig) *scs.SessionManager {
	sm := scs.New()
	sm.Lifetime = cfg.Lifetime
	sm.Cookie.Name = "shopfront_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.CookieSecure
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm
}
