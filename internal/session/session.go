// Package session holds the single upstream credential for the dashboard
// process. The token is persisted in a small bbolt store under the workdir so
// a restart does not force a fresh login, and expiry is broadcast on an event
// bus so the web layer can drive the login redirect.
package session

import (
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketName = "session"
	tokenKey   = "adminToken"

	// TopicExpired is published after a credential is cleared because the
	// upstream rejected it.
	TopicExpired = "session.expired"
)

// Session is the explicit credential context handed to the gateway at
// construction time. All access is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	db    *bolt.DB
	bus   EventBus.Bus
}

// Open loads the persisted credential, creating the store when missing.
func Open(path string, bus EventBus.Bus) (*Session, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open session store")
	}
	s := &Session{db: db, bus: bus}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		if v := b.Get([]byte(tokenKey)); v != nil {
			s.token = string(v)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "load session store")
	}
	return s, nil
}

// Set stores a fresh credential, replacing any previous one.
func (s *Session) Set(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(tokenKey), []byte(token))
	})
}

// Clear removes the credential, e.g. on logout.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(tokenKey))
	})
}

// Expire clears the credential and notifies subscribers. Called by the
// gateway when the upstream answers 401.
func (s *Session) Expire() {
	_ = s.Clear()
	s.bus.Publish(TopicExpired)
}

// OnExpired registers a callback for credential expiry.
func (s *Session) OnExpired(fn func()) error {
	return s.bus.Subscribe(TopicExpired, fn)
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a credential is present. It says nothing
// about whether the upstream still accepts it.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Claims decodes the token payload without verifying the signature; the
// token is issued and validated remotely, this is display-only metadata.
func (s *Session) Claims() (jwt.MapClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, errors.New("no session token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "decode session token")
	}
	return claims, nil
}

// Close releases the underlying store.
func (s *Session) Close() error {
	return s.db.Close()
}
