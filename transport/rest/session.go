package rest

import (
	"net/http"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	sessionCookieName = "user_session"
	sessionCookieTTL  = 24 * time.Hour
)

// resolveSession - the caller's session from its cookie, refreshing the cookie
// whenever a new session had to be created.
func (that *gameHandler) resolveSession(w http.ResponseWriter, r *http.Request) (*entity.Session, error) {
	var sessionID string
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	session, err := that.manager.GetOrCreateSession(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}

	if session.ID != sessionID {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    session.ID,
			Path:     "/",
			Expires:  time.Now().Add(sessionCookieTTL),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		that.logger.Debug("session cookie not found, new one created", "session_id", session.ID)
	}

	return session, nil
}
