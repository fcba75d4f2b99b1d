package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestManager(t *testing.T) (*Manager, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	m, err := NewManager(Options{
		Secret: "secret",
		Now:    clock.Now,
	})
	require.NoError(t, err)

	return m, clock
}

func TestNewManager(t *testing.T) {
	_, err := NewManager(Options{})
	assert.EqualError(t, err, "a signing secret is required")
}

func TestManager_IssueAndValidate(t *testing.T) {
	a := assert.New(t)
	m, clock := newTestManager(t)

	token, err := m.Issue("game", "p1", "Alice")
	a.NoError(err)

	s, err := m.Validate(token)
	a.NoError(err)
	a.Equal("game", s.GameID)
	a.Equal("p1", s.PlayerID)
	a.Equal("Alice", s.PlayerName)
	a.Equal(clock.Now(), s.IssuedAt)
	a.Equal(token, s.Token)

	gameID, err := m.Peek(token)
	a.NoError(err)
	a.Equal("game", gameID)

	_, err = m.Peek("garbage")
	a.Equal(RejectInvalid, err)

	_, err = m.Validate("garbage")
	a.Equal(RejectInvalid, err)

	other, _ := NewManager(Options{Secret: "other"})
	forged, err := other.Issue("game", "p1", "Alice")
	a.NoError(err)
	_, err = m.Validate(forged)
	a.Equal(RejectInvalid, err)
}

func TestManager_IssueSupersedes(t *testing.T) {
	a := assert.New(t)
	m, _ := newTestManager(t)

	first, _ := m.Issue("game", "p1", "Alice")
	second, _ := m.Issue("game", "p1", "Alice")
	a.NotEqual(first, second)

	_, err := m.Validate(first)
	a.Equal(RejectInvalid, err)

	_, err = m.Validate(second)
	a.NoError(err)
}

func TestManager_Reissue(t *testing.T) {
	a := assert.New(t)
	m, clock := newTestManager(t)

	token, _ := m.Issue("game", "p1", "Alice")
	m.Disconnected("game", "p1")
	clock.Advance(time.Minute)

	s, err := m.Reissue(token, "p1-new")
	a.NoError(err)
	a.Equal("p1-new", s.PlayerID)
	a.Equal("Alice", s.PlayerName)
	a.Equal(clock.Now(), s.IssuedAt)
	a.NotEqual(token, s.Token)

	_, err = m.Validate(token)
	a.Equal(RejectInvalid, err)
	_, err = m.Reissue(token, "p1-other")
	a.Equal(RejectInvalid, err)

	_, ok := m.Lookup("game", "p1")
	a.False(ok)
	current, ok := m.Lookup("game", "p1-new")
	a.True(ok)
	a.Equal(s.Token, current.Token)
}

func TestManager_GraceWindowExpires(t *testing.T) {
	a := assert.New(t)
	m, clock := newTestManager(t)

	token, _ := m.Issue("game", "p2", "Carol")
	m.GameStarted("game")
	m.Disconnected("game", "p2")

	clock.Advance(14 * time.Minute)
	_, err := m.Validate(token)
	a.NoError(err)

	clock.Advance(time.Minute + time.Second)
	_, err = m.Validate(token)
	a.Equal(RejectExpired, err)
	a.EqualError(err, "reconnection failed: expired")

	// it stays expired
	_, err = m.Validate(token)
	a.Equal(RejectExpired, err)
	_, err = m.Reissue(token, "p2-new")
	a.Equal(RejectExpired, err)

	m.Connected("game", "p2")
	_, err = m.Validate(token)
	a.Equal(RejectExpired, err)
}

func TestManager_ConnectWindowExpires(t *testing.T) {
	a := assert.New(t)
	m, clock := newTestManager(t)

	token, _ := m.Issue("game", "p1", "Alice")
	m.Disconnected("game", "p1")

	clock.Advance(2*time.Minute + time.Second)
	_, err := m.Validate(token)
	a.Equal(RejectExpired, err)
}

func TestManager_ConnectedStopsExpiry(t *testing.T) {
	a := assert.New(t)
	m, clock := newTestManager(t)

	token, _ := m.Issue("game", "p1", "Alice")
	m.GameStarted("game")
	m.Disconnected("game", "p1")
	clock.Advance(10 * time.Minute)
	m.Connected("game", "p1")
	clock.Advance(time.Hour)

	_, err := m.Validate(token)
	a.NoError(err)
}

func TestManager_Invalidate(t *testing.T) {
	a := assert.New(t)
	m, _ := newTestManager(t)

	alice, _ := m.Issue("game", "p1", "Alice")
	bob, _ := m.Issue("game", "p2", "Bob")
	carol, _ := m.Issue("other", "p3", "Carol")

	m.Invalidate("game", "p1")
	_, err := m.Validate(alice)
	a.Equal(RejectInvalid, err)
	_, err = m.Validate(bob)
	a.NoError(err)

	m.InvalidateGame("game")
	_, err = m.Validate(bob)
	a.Equal(RejectInvalid, err)
	_, err = m.Validate(carol)
	a.NoError(err)
}

func TestManager_ExpiryTimer(t *testing.T) {
	a := assert.New(t)

	expired := make(chan Session, 1)
	m, err := NewManager(Options{
		Secret:        "secret",
		ConnectWindow: 10 * time.Millisecond,
		GraceWindow:   10 * time.Millisecond,
		OnExpire: func(s Session) {
			expired <- s
		},
	})
	a.NoError(err)

	token, _ := m.Issue("game", "p1", "Alice")
	m.Disconnected("game", "p1")

	select {
	case s := <-expired:
		a.Equal("p1", s.PlayerID)
		a.Equal("Alice", s.PlayerName)
	case <-time.After(time.Second):
		a.Fail("session did not expire")
	}

	_, err = m.Validate(token)
	a.Equal(RejectExpired, err)
	_, ok := m.Lookup("game", "p1")
	a.False(ok)
}

func TestManager_ValidateReportsExpiry(t *testing.T) {
	a := assert.New(t)

	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	var lock sync.Mutex
	var expired []Session
	m, err := NewManager(Options{
		Secret: "secret",
		Now:    clock.Now,
		OnExpire: func(s Session) {
			lock.Lock()
			defer lock.Unlock()
			expired = append(expired, s)
		},
	})
	require.NoError(t, err)

	alice, _ := m.Issue("game", "p1", "Alice")
	bob, _ := m.Issue("game", "p2", "Bob")
	m.GameStarted("game")
	m.Disconnected("game", "p1")
	m.Disconnected("game", "p2")

	// the clock passes the window before the timers fire
	clock.Advance(16 * time.Minute)

	_, err = m.Validate(alice)
	a.Equal(RejectExpired, err)
	_, err = m.Validate(alice)
	a.Equal(RejectExpired, err)

	_, err = m.Reissue(bob, "p2-new")
	a.Equal(RejectExpired, err)

	lock.Lock()
	defer lock.Unlock()
	if a.Len(expired, 2) {
		a.Equal("p1", expired[0].PlayerID)
		a.Equal("p2", expired[1].PlayerID)
	}
}
