package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gateNow = time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("provider-secret"))
	require.NoError(t, err)
	return s
}

func TestGateNotRequiredIsAlwaysPresent(t *testing.T) {
	g := NewGate(FileSource{Path: filepath.Join(t.TempDir(), "none")}, false, nil)
	require.NoError(t, g.Require())
}

func TestGateTracksTokenFile(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "auth", "session.token")}
	g := NewGate(src, true, func() time.Time { return gateNow })

	var signals []bool
	cancel := g.Subscribe(func(present bool) { signals = append(signals, present) })

	assert.ErrorIs(t, g.Require(), ErrNoSession)

	require.NoError(t, src.Save(signed(t, gateNow.Add(time.Hour))))
	present, err := g.Check()
	require.NoError(t, err)
	assert.True(t, present)

	// No transition, no notification.
	_, err = g.Check()
	require.NoError(t, err)

	require.NoError(t, src.Clear())
	present, err = g.Check()
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, []bool{false, true, false}, signals)

	cancel()
	require.NoError(t, src.Save("opaque-token"))
	present, err = g.Check()
	require.NoError(t, err)
	assert.True(t, present, "opaque tokens count as present")
	assert.Len(t, signals, 3)
}

func TestGateExpiredJWT(t *testing.T) {
	src := FileSource{Override: signed(t, gateNow.Add(-time.Minute))}
	g := NewGate(src, true, func() time.Time { return gateNow })
	present, err := g.Check()
	require.NoError(t, err)
	assert.False(t, present)
}

func TestExpiry(t *testing.T) {
	exp := gateNow.Add(2 * time.Hour)
	got, ok := Expiry(signed(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = Expiry("not-a-jwt")
	assert.False(t, ok)
}

func TestSaveRejectsEmpty(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "t")}
	assert.Error(t, src.Save("  "))
	assert.NoError(t, src.Clear())
}
