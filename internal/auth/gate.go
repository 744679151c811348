// Package auth gates screens on the presence of a hosted sign-in session.
//
// Credentials never pass through this package. The hosted sign-in page hands
// the user an access token; the gate only looks at whether one is stored and,
// when it is a JWT carrying an exp claim, whether that moment has passed.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when access requires a session and none is present.
var ErrNoSession = errors.New("not signed in")

// TokenSource yields the stored access token, or "" when there is none.
type TokenSource interface {
	Token() (string, error)
}

// FileSource keeps the token in a file, with an optional environment override.
type FileSource struct {
	Path     string
	Override string
}

// Token returns the override when set, otherwise the file contents.
func (f FileSource) Token() (string, error) {
	if v := strings.TrimSpace(f.Override); v != "" {
		return v, nil
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes token to the file with owner-only permissions.
func (f FileSource) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(f.Path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Clear removes the stored token.
func (f FileSource) Clear() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// Gate publishes the session-present signal to subscribers.
type Gate struct {
	source   TokenSource
	required bool
	now      func() time.Time

	present bool
	checked bool
	nextID  int
	subs    map[int]func(bool)
}

// NewGate returns a Gate. When required is false the session is always present.
func NewGate(source TokenSource, required bool, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{source: source, required: required, now: now, subs: map[int]func(bool){}}
}

// Subscribe registers fn for presence changes and returns its cancel func.
func (g *Gate) Subscribe(fn func(present bool)) func() {
	id := g.nextID
	g.nextID++
	g.subs[id] = fn
	return func() {
		delete(g.subs, id)
	}
}

// Check recomputes presence and notifies subscribers when it changed.
func (g *Gate) Check() (bool, error) {
	present, err := g.compute()
	if err != nil {
		return g.present, err
	}
	changed := !g.checked || present != g.present
	g.present = present
	g.checked = true
	if changed {
		for _, fn := range g.subs {
			fn(present)
		}
	}
	return present, nil
}

// Require returns ErrNoSession when no session is present.
func (g *Gate) Require() error {
	present, err := g.Check()
	if err != nil {
		return err
	}
	if !present {
		return ErrNoSession
	}
	return nil
}

func (g *Gate) compute() (bool, error) {
	if !g.required {
		return true, nil
	}
	token, err := g.source.Token()
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}
	exp, ok := Expiry(token)
	if !ok {
		return true, nil
	}
	return g.now().Before(exp), nil
}

// Expiry reads the exp claim of a JWT without verifying it.
// It reports false for opaque tokens and JWTs without exp.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
