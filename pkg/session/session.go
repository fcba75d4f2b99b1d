// Package session issues the tokens that let a player return to their seat.
//
// A token is bound to a game, a seat identity and a name. Only the newest token
// for a seat is honored, so presenting an older one after a reconnect fails.
package session

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"jaffre-server/internal/jwt"
)

// Rejection is the reason a reconnect was refused
type Rejection string

// rejection reasons
const (
	RejectExpired      Rejection = "expired"
	RejectInvalid      Rejection = "invalid"
	RejectGameNotFound Rejection = "game_not_found"
)

func (r Rejection) Error() string {
	return "reconnection failed: " + string(r)
}

// Session is a seat's current token
type Session struct {
	ID         string    `json:"id"`
	Token      string    `json:"token"`
	GameID     string    `json:"gameId"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	IssuedAt   time.Time `json:"issuedAt"`

	connected bool
	expired   bool
	lastSeen  time.Time
	timer     *time.Timer
}

// Options configure a Manager
type Options struct {
	Secret string
	// ConnectWindow is how long a disconnected seat stays reconnectable before the game starts
	ConnectWindow time.Duration
	// GraceWindow is how long a disconnected seat stays reconnectable once the game started
	GraceWindow time.Duration
	// OnExpire is called, outside of any lock, when a disconnected seat's session expires
	OnExpire func(Session)
	// Now defaults to time.Now
	Now func() time.Time
}

// Manager tracks the live session of every seat
type Manager struct {
	mu            sync.Mutex
	signer        *jwt.Signer
	connectWindow time.Duration
	graceWindow   time.Duration
	onExpire      func(Session)
	now           func() time.Time

	sessions map[string]*Session // session ID -> session
	bySeat   map[seatKey]string  // seat -> session ID
	started  map[string]bool
}

type seatKey struct {
	gameID   string
	playerID string
}

// NewManager returns a new session manager
func NewManager(opts Options) (*Manager, error) {
	signer, err := jwt.NewSigner(opts.Secret)
	if err != nil {
		return nil, err
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.ConnectWindow <= 0 {
		opts.ConnectWindow = 2 * time.Minute
	}

	if opts.GraceWindow <= 0 {
		opts.GraceWindow = 15 * time.Minute
	}

	return &Manager{
		signer:        signer,
		connectWindow: opts.ConnectWindow,
		graceWindow:   opts.GraceWindow,
		onExpire:      opts.OnExpire,
		now:           opts.Now,
		sessions:      make(map[string]*Session),
		bySeat:        make(map[seatKey]string),
		started:       make(map[string]bool),
	}, nil
}

// Issue returns a new token for the seat. Any older token for the seat stops working
func (m *Manager) Issue(gameID, playerID, playerName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.issue(gameID, playerID, playerName)
}

func (m *Manager) issue(gameID, playerID, playerName string) (string, error) {
	now := m.now()
	token, id, err := m.signer.Sign(gameID, playerID, playerName, now)
	if err != nil {
		return "", err
	}

	key := seatKey{gameID: gameID, playerID: playerID}
	if old, ok := m.bySeat[key]; ok {
		m.remove(old)
	}

	s := &Session{
		ID:         id,
		Token:      token,
		GameID:     gameID,
		PlayerID:   playerID,
		PlayerName: playerName,
		IssuedAt:   now,
		connected:  true,
		lastSeen:   now,
	}

	m.sessions[id] = s
	m.bySeat[key] = id
	return token, nil
}

// Peek returns the game a token was issued for without checking whether it is still valid
func (m *Manager) Peek(token string) (string, error) {
	claims, err := m.signer.Parse(token)
	if err != nil {
		return "", RejectInvalid
	}

	return claims.GameID, nil
}

// Validate returns the session of a token that is still honored
func (m *Manager) Validate(token string) (Session, error) {
	m.mu.Lock()
	s, justExpired, err := m.validate(token)
	if err != nil {
		m.mu.Unlock()
		if justExpired != nil {
			m.notifyExpired(*justExpired)
		}

		return Session{}, err
	}

	defer m.mu.Unlock()
	return *s, nil
}

// validate returns the live session of the token. When this call is the first to notice
// the session ran out, the expired session is returned too so the caller can report it once unlocked
func (m *Manager) validate(token string) (*Session, *Session, error) {
	claims, err := m.signer.Parse(token)
	if err != nil {
		logrus.WithError(err).Debug("could not parse session token")
		return nil, nil, RejectInvalid
	}

	s, ok := m.sessions[claims.ID]
	if !ok || s.Token != token {
		return nil, nil, RejectInvalid
	}

	if s.expired {
		return nil, nil, RejectExpired
	}

	if m.expired(s) {
		m.expire(s)
		expired := *s
		return nil, &expired, RejectExpired
	}

	return s, nil, nil
}

// Reissue swaps a valid token for a new one bound to the seat's new identity
func (m *Manager) Reissue(token, newPlayerID string) (Session, error) {
	m.mu.Lock()
	s, justExpired, err := m.validate(token)
	if err != nil {
		m.mu.Unlock()
		if justExpired != nil {
			m.notifyExpired(*justExpired)
		}

		return Session{}, err
	}

	defer m.mu.Unlock()

	m.remove(s.ID)
	if _, err := m.issue(s.GameID, newPlayerID, s.PlayerName); err != nil {
		return Session{}, err
	}

	next := m.sessions[m.bySeat[seatKey{gameID: s.GameID, playerID: newPlayerID}]]
	return *next, nil
}

// Lookup returns the current session of a seat
func (m *Manager) Lookup(gameID, playerID string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.seat(gameID, playerID)
	if s == nil || s.expired {
		return Session{}, false
	}

	return *s, true
}

// Connected marks the seat as having a live connection
func (m *Manager) Connected(gameID, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.seat(gameID, playerID)
	if s == nil || s.expired {
		return
	}

	s.connected = true
	s.lastSeen = m.now()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Disconnected starts the seat's inactivity window
func (m *Manager) Disconnected(gameID, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.seat(gameID, playerID)
	if s == nil || s.expired {
		return
	}

	s.connected = false
	s.lastSeen = m.now()
	m.schedule(s, m.window(gameID))
}

func (m *Manager) schedule(s *Session, d time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}

	id := s.ID
	s.timer = time.AfterFunc(d, func() {
		m.fire(id)
	})
}

func (m *Manager) fire(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok || s.connected || s.expired {
		m.mu.Unlock()
		return
	}

	if !m.expired(s) {
		// the window grew when the game started
		m.schedule(s, s.lastSeen.Add(m.window(s.GameID)).Sub(m.now()))
		m.mu.Unlock()
		return
	}

	m.expire(s)
	expired := *s
	m.mu.Unlock()

	m.notifyExpired(expired)
}

// notifyExpired must be called without holding the lock
func (m *Manager) notifyExpired(s Session) {
	logrus.WithFields(logrus.Fields{
		"gameId":   s.GameID,
		"playerId": s.PlayerID,
	}).Info("session expired")

	if m.onExpire != nil {
		m.onExpire(s)
	}
}

// Invalidate drops the seat's session, e.g. when the player leaves or is kicked
func (m *Manager) Invalidate(gameID, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.bySeat[seatKey{gameID: gameID, playerID: playerID}]; ok {
		m.remove(id)
	}
}

// InvalidateGame drops every session of the game
func (m *Manager) InvalidateGame(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.GameID == gameID {
			m.remove(id)
		}
	}

	delete(m.started, gameID)
}

// GameStarted switches the game's disconnected seats to the longer grace window
func (m *Manager) GameStarted(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.started[gameID] = true
}

func (m *Manager) window(gameID string) time.Duration {
	if m.started[gameID] {
		return m.graceWindow
	}

	return m.connectWindow
}

// expire keeps the session so later attempts with its token report it as expired
func (m *Manager) expire(s *Session) {
	s.expired = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (m *Manager) expired(s *Session) bool {
	if s.connected {
		return false
	}

	return m.now().Sub(s.lastSeen) > m.window(s.GameID)
}

func (m *Manager) seat(gameID, playerID string) *Session {
	id, ok := m.bySeat[seatKey{gameID: gameID, playerID: playerID}]
	if !ok {
		return nil
	}

	return m.sessions[id]
}

func (m *Manager) remove(id string) {
	s, ok := m.sessions[id]
	if !ok {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}

	delete(m.sessions, id)
	key := seatKey{gameID: s.GameID, playerID: s.PlayerID}
	if m.bySeat[key] == id {
		delete(m.bySeat, key)
	}
}
