package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martijn/quill/internal/core/session"
)

// SessionCookies stores the signed session token in an HttpOnly cookie
type SessionCookies struct {
	codec  *session.Codec
	name   string
	secure bool
}

func NewSessionCookies(codec *session.Codec, name string, secure bool) *SessionCookies {
	return &SessionCookies{
		codec:  codec,
		name:   name,
		secure: secure,
	}
}

func (s *SessionCookies) Read(c *gin.Context) string {
	value, err := c.Cookie(s.name)
	if err != nil {
		return ""
	}
	return value
}

// Establish replaces whatever session the client had with a new one for userID
func (s *SessionCookies) Establish(c *gin.Context, userID int64) error {
	raw, err := s.codec.Encode(s.codec.Issue(userID))
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, raw, int(s.codec.Lifetime().Seconds()), "/", "", s.secure, true)
	return nil
}

func (s *SessionCookies) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}
