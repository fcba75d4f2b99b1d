package room

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"jaffre-server/pkg/game"
	"jaffre-server/pkg/protocol"
	"jaffre-server/pkg/session"
	"jaffre-server/pkg/token"
)

const gameIDLength = 8

// Config configures a PitBoss
type Config struct {
	// Options are the defaults for new games. A create_game command can override them
	Options game.Options
	// TurnTimeout is how long a human has to bet or play before the auto-action is taken. Zero disables it
	TurnTimeout time.Duration
	// BotDelay is the pause before a bot acts
	BotDelay time.Duration
	Session  session.Options
	// Publisher defaults to a no-op
	Publisher Publisher
}

// PitBoss is responsible for dispatching connections to games
type PitBoss struct {
	config    Config
	sessions  *session.Manager
	publisher Publisher

	// newGameID generates candidate game IDs
	newGameID func() (string, error)

	lock    sync.RWMutex
	dealers map[string]*Dealer
	members map[string]string // connection ID -> game ID
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(config Config) (*PitBoss, error) {
	p := &PitBoss{
		config:    config,
		newGameID: func() (string, error) { return token.Generate(gameIDLength) },
		publisher: config.Publisher,
		dealers:   make(map[string]*Dealer),
		members:   make(map[string]string),
	}

	if p.publisher == nil {
		p.publisher = nopPublisher{}
	}

	opts := config.Session
	onExpire := opts.OnExpire
	opts.OnExpire = func(s session.Session) {
		p.sessionExpired(s)
		if onExpire != nil {
			onExpire(s)
		}
	}

	sessions, err := session.NewManager(opts)
	if err != nil {
		return nil, err
	}

	p.sessions = sessions
	return p, nil
}

// Dealer returns the dealer running the game
func (p *PitBoss) Dealer(gameID string) (*Dealer, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	d, ok := p.dealers[gameID]
	return d, ok
}

// GameCount returns the number of running games
func (p *PitBoss) GameCount() int {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return len(p.dealers)
}

// ReceivedMessage is called when a client sends a message to the server
func (p *PitBoss) ReceivedMessage(c Conn, env *protocol.Envelope) {
	cmd, err := env.Command()
	if err != nil {
		sendError(c, env.Context, err)
		return
	}

	log := logrus.WithFields(logrus.Fields{
		"conn": c.ID(),
		"type": env.Type,
	})
	log.Debug("received message")

	switch cmd := cmd.(type) {
	case *protocol.CreateGame:
		p.createGame(c, env.Context, cmd)
	case *protocol.ReconnectToGame:
		gameID, err := p.sessions.Peek(cmd.Token)
		if err != nil {
			sendReconnectionFailed(c, env.Context, session.RejectInvalid)
			return
		}

		d, ok := p.Dealer(gameID)
		if !ok {
			sendReconnectionFailed(c, env.Context, session.RejectGameNotFound)
			return
		}

		p.dispatch(c, env.Context, d, cmd, true)
	case *protocol.JoinGame, *protocol.SpectateGame, *protocol.TakeOverBot:
		d, ok := p.Dealer(env.GameID)
		if !ok {
			sendError(c, env.Context, protocol.ErrGameNotFound)
			return
		}

		p.dispatch(c, env.Context, d, cmd, true)
	default:
		gameID, ok := p.membership(c.ID())
		if !ok {
			sendError(c, env.Context, protocol.ErrNotInGame)
			return
		}

		d, ok := p.Dealer(gameID)
		if !ok {
			p.release(c.ID(), gameID)
			sendError(c, env.Context, protocol.ErrNotInGame)
			return
		}

		p.dispatch(c, env.Context, d, cmd, false)
	}
}

func (p *PitBoss) createGame(c Conn, ctx string, cmd *protocol.CreateGame) {
	opts := p.config.Options
	if o := cmd.Options; o != nil {
		if o.WinningScore > 0 {
			opts.WinningScore = o.WinningScore
		}

		if o.MinBet > 0 {
			opts.MinBet = o.MinBet
		}

		if o.MaxBet > 0 {
			opts.MaxBet = o.MaxBet
		}
	}

	d, err := p.registerDealer(opts)
	if err != nil {
		sendError(c, ctx, err)
		return
	}

	gameID := d.id
	if !p.claim(c.ID(), gameID) {
		p.removeDealer(gameID)
		d.EndShift()
		d.drain()
		sendError(c, ctx, protocol.ErrAlreadyInGame)
		return
	}

	d.StartShift()
	logrus.WithField("gameId", gameID).Info("game created")

	p.dispatch(c, ctx, d, cmd, false)
}

// registerDealer creates a dealer under a game ID that is not already in use
func (p *PitBoss) registerDealer(opts game.Options) (*Dealer, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	for {
		gameID, err := p.newGameID()
		if err != nil {
			return nil, err
		}

		if _, taken := p.dealers[gameID]; taken {
			continue
		}

		d := NewDealer(p, game.NewGame(gameID, opts, logrus.StandardLogger()))
		p.dealers[gameID] = d
		return d, nil
	}
}

// dispatch hands the command to the dealer's run loop. Commands that seat or attach the
// connection claim its membership first so it cannot be in two games at once
func (p *PitBoss) dispatch(c Conn, ctx string, d *Dealer, cmd protocol.Command, claim bool) {
	if claim && !p.claim(c.ID(), d.id) {
		sendError(c, ctx, protocol.ErrAlreadyInGame)
		return
	}

	d.execOrReject(func() { d.ReceivedCommand(c, ctx, cmd) }, func() {
		p.release(c.ID(), d.id)
		sendError(c, ctx, protocol.ErrGameNotFound)
	})
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(c Conn) {
	gameID, ok := p.membership(c.ID())
	if !ok {
		return
	}

	p.release(c.ID(), gameID)
	if d, ok := p.Dealer(gameID); ok {
		d.exec(func() { d.clientDisconnected(c) })
	}
}

func (p *PitBoss) sessionExpired(s session.Session) {
	d, ok := p.Dealer(s.GameID)
	if !ok {
		return
	}

	d.exec(func() { d.sessionExpired(s) })
}

// claim records that the connection belongs to the game. It fails if the connection
// belongs to another game that is still running
func (p *PitBoss) claim(connID, gameID string) bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if existing, ok := p.members[connID]; ok && existing != gameID {
		if _, running := p.dealers[existing]; running {
			return false
		}
	}

	p.members[connID] = gameID
	return true
}

func (p *PitBoss) release(connID, gameID string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.members[connID] == gameID {
		delete(p.members, connID)
	}
}

func (p *PitBoss) membership(connID string) (string, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	gameID, ok := p.members[connID]
	return gameID, ok
}

func (p *PitBoss) removeDealer(gameID string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	delete(p.dealers, gameID)
	for connID, id := range p.members {
		if id == gameID {
			delete(p.members, connID)
		}
	}
}

func sendError(c Conn, ctx string, err error) {
	c.Send(protocol.NewMessage(ctx, protocol.NewError(err)))
}

func sendReconnectionFailed(c Conn, ctx string, reason session.Rejection) {
	c.Send(protocol.NewMessage(ctx, &protocol.ReconnectionFailed{Reason: string(reason)}))
}
