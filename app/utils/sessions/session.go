package sessions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const (
	sessionCookieName = "fooddelivery-session"

	checkoutIDSessionKey = "checkoutID"
)

type SessionStore interface {
	// EnsureCheckoutID returns the session's checkout id, minting and saving one if absent.
	EnsureCheckoutID(w http.ResponseWriter, r *http.Request) (string, error)
	GetCheckoutID(r *http.Request) string
	ClearCheckoutID(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		// gorilla hands back a fresh session alongside decode errors
		log.Warn().Err(err).Msg("sessions: discarding unreadable session cookie")
	}
	return session
}

func (c *CookieSessionStore) EnsureCheckoutID(w http.ResponseWriter, r *http.Request) (string, error) {
	session := c.getSession(r)
	if id, ok := session.Values[checkoutIDSessionKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.New().String()
	session.Values[checkoutIDSessionKey] = id
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

func (c *CookieSessionStore) GetCheckoutID(r *http.Request) string {
	session := c.getSession(r)
	id, ok := session.Values[checkoutIDSessionKey].(string)
	if !ok {
		return ""
	}
	return id
}

func (c *CookieSessionStore) ClearCheckoutID(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	delete(session.Values, checkoutIDSessionKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
