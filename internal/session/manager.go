package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"book-catalog/internal/config"
	"book-catalog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultCookieName = "catalog.sid"

// Manager binds the FileStore to HTTP requests through a signed cookie.
type Manager struct {
	Store      *FileStore
	CookieName string
	Secret     string
	Secure     bool
}

// NewManager builds the store and manager from configuration.
// An empty secret is replaced by a random one, which invalidates every
// cookie on restart.
func NewManager(cfg config.SessionConfig, encryptionKey string) (*Manager, error) {
	settings := &FileStoreSettings{Timeout: cfg.Timeout}
	if encryptionKey != "" {
		sealer, err := util.NewSealer(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("session sealer: %w", err)
		}
		settings.Sealer = sealer
	}

	secret := cfg.Secret
	if secret == "" {
		s, err := util.RandomString(32)
		if err != nil {
			return nil, fmt.Errorf("session secret: %w", err)
		}
		log.Printf("session.secret not set; using a random secret for this run")
		secret = s
	}

	name := cfg.CookieName
	if name == "" {
		name = defaultCookieName
	}

	return &Manager{
		Store:      NewFileStore(cfg.Dir, settings),
		CookieName: name,
		Secret:     secret,
		Secure:     cfg.Secure,
	}, nil
}

// Load returns the session named by the request cookie, or a fresh
// anonymous session when the cookie is absent, forged or expired. The
// error is non-nil only for storage failures; the returned session is
// usable either way.
func (m *Manager) Load(c *gin.Context) (*Session, error) {
	raw, err := c.Cookie(m.CookieName)
	if err != nil || raw == "" {
		return newSession(), nil
	}

	id, err := util.ParseSessionID(m.Secret, raw)
	if err != nil {
		return newSession(), nil
	}

	rec, err := m.Store.Get(id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return newSession(), nil
		}
		return newSession(), err
	}
	return &Session{record: rec, stored: true}, nil
}

// Save persists s and (re)issues the cookie. Anonymous sessions that were
// never modified are not stored.
func (m *Manager) Save(c *gin.Context, s *Session) error {
	if !s.stored && !s.modified {
		return nil
	}
	if s.record.ID == "" {
		s.record.ID = uuid.NewString()
	}
	if err := m.Store.Put(&s.record); err != nil {
		return err
	}
	s.stored = true
	s.modified = false

	value, err := util.SignSessionID(m.Secret, s.record.ID, 0)
	if err != nil {
		return fmt.Errorf("sign session cookie: %w", err)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	// MaxAge 0: browser-session cookie; expiry is enforced server side
	c.SetCookie(m.CookieName, value, 0, "/", "", m.Secure, true)
	return nil
}

// Destroy deletes the stored session, expires the cookie and resets s to
// anonymous.
func (m *Manager) Destroy(c *gin.Context, s *Session) error {
	var err error
	if s.record.ID != "" {
		err = m.Store.Delete(s.record.ID)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.CookieName, "", -1, "/", "", m.Secure, true)
	s.reset()
	return err
}

// JanitorTicker is the abtime id of the Janitor's ticker.
const JanitorTicker = iota

// Janitor prunes expired session files every interval until ctx is done.
// The ticker is created before Janitor returns; the returned channel is
// closed when the loop exits.
func (m *Manager) Janitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	ticker := m.Store.NewTicker(interval, JanitorTicker)

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Channel():
				n, err := m.Store.Prune()
				if err != nil {
					log.Printf("prune sessions: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("pruned %d expired sessions", n)
				}
			}
		}
	}()
	return done
}
