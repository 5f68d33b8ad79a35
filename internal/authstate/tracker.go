// Package authstate owns the externally observable "authenticated" signal.
// The submission dispatcher flips it when the registration backend returns
// a valid access token; the redirect controller subscribes to the flip and
// performs navigation itself.  This core never navigates.
package authstate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when the backend's token fails validation;
// the authenticated state does not change in that case.
var ErrInvalidToken = errors.New("invalid access token")

// Status is a snapshot of the authentication state.
type Status struct {
	Authenticated bool
	Subject       string
	Role          string
}

// Tracker validates access tokens and fans the resulting status out to
// subscribers.  Reads and writes are safe for concurrent use.
type Tracker struct {
	secret []byte

	mu     sync.Mutex
	status Status
	subs   []chan Status
}

// NewTracker returns a tracker validating tokens against the given HS256
// secret shared with the registration backend.
func NewTracker(secret string) *Tracker {
	return &Tracker{secret: []byte(secret)}
}

// MarkAuthenticated parses and validates the token returned by the
// registration backend.  Only a well-signed HMAC token flips the status;
// anything else leaves the state untouched and returns ErrInvalidToken.
func (t *Tracker) MarkAuthenticated(token string) error {
	tok, err := jwt.Parse(token, func(tk *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tk.Method.Alg())
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return ErrInvalidToken
	}

	st := Status{Authenticated: true}
	if claims, ok := tok.Claims.(jwt.MapClaims); ok {
		if sub, err := claims.GetSubject(); err == nil {
			st.Subject = sub
		}
		if role, ok := claims["role"].(string); ok {
			st.Role = role
		}
	}

	t.mu.Lock()
	t.status = st
	subs := append([]chan Status(nil), t.subs...)
	t.mu.Unlock()

	for _, ch := range subs {
		// Non-blocking: a slow subscriber keeps its latest pending value.
		select {
		case ch <- st:
		default:
		}
	}
	return nil
}

// Status returns the current snapshot.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Subscribe registers an observer.  The returned channel receives status
// snapshots after each transition; it is buffered so the tracker never
// blocks on a subscriber.
func (t *Tracker) Subscribe() <-chan Status {
	ch := make(chan Status, 1)
	t.mu.Lock()
	t.subs = append(t.subs, ch)
	t.mu.Unlock()
	return ch
}
