package room

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"jaffre-server/pkg/game"
	"jaffre-server/pkg/protocol"
	"jaffre-server/pkg/session"
)

// eventFunc builds the event a recipient sees. recipientID is empty for spectators
type eventFunc func(recipientID string, state *game.GameState) protocol.Event

// Dealer is responsible for running one game.
// Every field below the game is owned by the run loop and must only be touched from it
type Dealer struct {
	id       string
	pitBoss  *PitBoss
	sessions *session.Manager
	logger   logrus.FieldLogger
	game     *game.Game

	conns      map[string]Conn // player ID -> connection
	spectators map[string]Conn // connection ID -> connection

	turnTimeout  time.Duration
	turnTimer    *time.Timer
	turnGen      int
	turnDeadline *time.Time

	botDelay time.Duration
	botTimer *time.Timer
	botGen   int

	closed        bool
	execInRunLoop chan *job
	close         chan bool
	closeOnce     sync.Once
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, g *game.Game) *Dealer {
	return &Dealer{
		id:            g.ID(),
		pitBoss:       pitBoss,
		sessions:      pitBoss.sessions,
		logger:        logrus.WithField("gameId", g.ID()),
		game:          g,
		conns:         make(map[string]Conn),
		spectators:    make(map[string]Conn),
		turnTimeout:   pitBoss.config.TurnTimeout,
		botDelay:      pitBoss.config.BotDelay,
		execInRunLoop: make(chan *job, 256),
		close:         make(chan bool),
	}
}

// ID returns the game ID
func (d *Dealer) ID() string {
	return d.id
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case j := <-d.execInRunLoop:
			j.run()
		case <-d.close:
		}

		select {
		case <-d.close:
			d.drain()
			d.logger.Debug("terminating dealer run loop")
			return
		default:
		}
	}
}

// drain rejects every job still queued once the shift is over
func (d *Dealer) drain() {
	for {
		select {
		case j := <-d.execInRunLoop:
			j.drop()
		default:
			return
		}
	}
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		close(d.close)
	})
}

// job is a closure queued on the run loop. Exactly one of fn and rejected runs
type job struct {
	fn       func()
	rejected func()
	state    int32
}

const (
	jobQueued int32 = iota
	jobRunning
	jobDropped
)

func (j *job) run() {
	if atomic.CompareAndSwapInt32(&j.state, jobQueued, jobRunning) {
		j.fn()
	}
}

// drop reports whether the job was rejected by this call
func (j *job) drop() bool {
	if !atomic.CompareAndSwapInt32(&j.state, jobQueued, jobDropped) {
		return false
	}

	if j.rejected != nil {
		j.rejected()
	}

	return true
}

// exec queues fn on the run loop. Returns false if the dealer has ended its shift
func (d *Dealer) exec(fn func()) bool {
	return d.execOrReject(fn, nil)
}

// execOrReject queues fn on the run loop. If the dealer ends its shift before fn runs,
// rejected is called instead, either here or from the run loop while it drains
func (d *Dealer) execOrReject(fn, rejected func()) bool {
	j := &job{fn: fn, rejected: rejected}

	select {
	case <-d.close:
		j.drop()
		return false
	default:
	}

	select {
	case d.execInRunLoop <- j:
	case <-d.close:
		j.drop()
		return false
	}

	// the run loop may have drained before this job was queued
	select {
	case <-d.close:
		if j.drop() {
			return false
		}
	default:
	}

	return true
}

// State returns the spectator view of the game
func (d *Dealer) State(ctx context.Context) (*game.GameState, error) {
	ch := make(chan *game.GameState, 1)
	if !d.exec(func() { ch <- d.view("") }) {
		return nil, protocol.ErrGameNotFound
	}

	select {
	case state := <-ch:
		return state, nil
	case <-d.close:
		return nil, protocol.ErrGameNotFound
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ReceivedCommand handles a command from a connection
// NOTE: must only be called from the run loop
func (d *Dealer) ReceivedCommand(c Conn, ctx string, cmd protocol.Command) {
	var err error
	switch cmd := cmd.(type) {
	case *protocol.CreateGame:
		err = d.create(c, ctx, cmd.PlayerName)
	case *protocol.JoinGame:
		err = d.join(c, ctx, cmd.PlayerName)
	case *protocol.SpectateGame:
		err = d.spectate(c, ctx)
	case *protocol.ReconnectToGame:
		d.reconnect(c, ctx, cmd.Token)
		return
	case *protocol.TakeOverBot:
		err = d.takeOverBot(c, ctx, cmd)
	case *protocol.LeaveGame:
		err = d.leave(c, ctx)
	default:
		if _, ok := d.game.Player(c.ID()); !ok {
			err = protocol.ErrNotInGame
			break
		}

		switch cmd := cmd.(type) {
		case *protocol.ReplaceWithBot:
			err = d.replaceWithBot(c, ctx, cmd)
		case *protocol.ChangeBotDifficulty:
			err = d.changeBotDifficulty(c, ctx, cmd)
		case *protocol.KickPlayer:
			err = d.kick(c, ctx, cmd)
		case *protocol.AddBot:
			err = d.addBot(c, ctx, cmd)
		default:
			err = d.apply(c.ID(), ctx, cmd)
		}
	}

	if err != nil {
		d.reject(c, ctx, err)
	}
}

// reject sends the error to the sender only. Integrity violations halt the game instead
func (d *Dealer) reject(c Conn, ctx string, err error) {
	var integrityErr game.IntegrityError
	if errors.As(err, &integrityErr) {
		d.halt(err)
		return
	}

	d.logger.WithError(err).WithField("conn", c.ID()).Debug("rejected command")

	msg := protocol.NewError(err)
	if msg.Code == protocol.CodeGameFull {
		msg.Bots = make([]string, 0)
		for _, p := range d.game.Bots() {
			msg.Bots = append(msg.Bots, p.Name)
		}
	}

	d.send(c, protocol.NewMessage(ctx, msg))
}

// apply performs a turn or lobby action for a seat. Humans, bots and turn timeouts all come through here
// NOTE: must only be called from the run loop
func (d *Dealer) apply(playerID, ctx string, cmd protocol.Command) error {
	switch cmd := cmd.(type) {
	case *protocol.SelectTeam:
		if err := d.game.SelectTeam(playerID, cmd.TeamID); err != nil {
			return err
		}

		d.commit(ctx, playerID, gameUpdated)
	case *protocol.SwapPosition:
		if err := d.game.SwapPosition(playerID, cmd.TargetPlayerID); err != nil {
			return err
		}

		d.commit(ctx, playerID, gameUpdated)
	case *protocol.StartGame:
		if err := d.game.Start(playerID); err != nil {
			return err
		}

		d.sessions.GameStarted(d.id)
		d.commit(ctx, playerID, d.roundStarted(false))
	case *protocol.PlaceBet:
		outcome, err := d.game.PlaceBet(playerID, cmd.Amount, cmd.WithoutTrump, cmd.Skipped)
		if err != nil {
			return err
		}

		if outcome == game.BettingRedeal {
			d.commit(ctx, playerID, d.roundStarted(true))
			return nil
		}

		d.commit(ctx, playerID, gameUpdated)
	case *protocol.PlayCard:
		outcome, err := d.game.PlayCard(playerID, cmd.Card)
		if err != nil {
			return err
		}

		switch outcome {
		case game.CardPlayed:
			d.commit(ctx, playerID, gameUpdated)
		case game.TrickResolved:
			d.commit(ctx, playerID, d.trickResolved())
		case game.RoundEnded:
			d.commit(ctx, playerID, d.trickResolved(), d.roundEnded())
		case game.GameEnded:
			d.commit(ctx, playerID, d.trickResolved(), d.gameOver())
		}
	case *protocol.PlayerReady:
		dealt, err := d.game.MarkReady(playerID)
		if err != nil {
			return err
		}

		if dealt {
			d.commit(ctx, playerID, d.roundStarted(false))
			return nil
		}

		d.commit(ctx, playerID, gameUpdated)
	default:
		return protocol.UnknownCommandError(cmd.CommandType())
	}

	return nil
}

// commit verifies the game after a mutation, restarts the turn timer, broadcasts the events
// and lets the bots act. A game that fails its integrity check is halted instead
// NOTE: must only be called from the run loop
func (d *Dealer) commit(ctx, originID string, events ...eventFunc) {
	if d.closed {
		return
	}

	if err := d.game.CheckIntegrity(); err != nil {
		d.halt(err)
		return
	}

	d.resetTurnTimer()
	for _, ev := range events {
		d.broadcast(ctx, originID, ev)
	}

	d.scheduleBots()
}

// broadcast sends every participant their own view of the event. Only the originator gets the context back
// NOTE: must only be called from the run loop
func (d *Dealer) broadcast(ctx, originID string, ev eventFunc) {
	for playerID, c := range d.conns {
		msgCtx := ""
		if playerID == originID {
			msgCtx = ctx
		}

		d.send(c, protocol.NewMessage(msgCtx, ev(playerID, d.view(playerID))))
	}

	spectatorView := d.view("")
	for connID, c := range d.spectators {
		msgCtx := ""
		if connID == originID {
			msgCtx = ctx
		}

		d.send(c, protocol.NewMessage(msgCtx, ev("", spectatorView)))
	}

	d.pitBoss.publisher.Publish(d.id, protocol.NewMessage("", ev("", spectatorView)))
}

// send never blocks. A connection that cannot keep up is closed
func (d *Dealer) send(c Conn, msg *protocol.Message) {
	if !c.Send(msg) {
		d.logger.WithField("conn", c.ID()).Warn("send buffer is full, closing connection")
		c.Close("send buffer full")
	}
}

// view returns the game as seen by the player, with connection status and turn deadline filled in
func (d *Dealer) view(playerID string) *game.GameState {
	state := d.game.View(playerID)
	for _, p := range state.Players {
		if !p.IsBot {
			_, p.Connected = d.conns[p.ID]
		}
	}

	if d.turnDeadline != nil {
		deadline := *d.turnDeadline
		state.TurnDeadline = &deadline
	}

	return state
}

// closeIfAbandoned ends the game when no human can act in it anymore.
// A finished game is kept until its last connected human leaves
func (d *Dealer) closeIfAbandoned() bool {
	if d.closed {
		return true
	}

	if !d.game.HasHumans() {
		d.shutdown("no human players left")
		return true
	}

	if d.game.Phase() == game.PhaseGameOver && len(d.conns) == 0 {
		d.shutdown("game over and everyone left")
		return true
	}

	return false
}

// halt stops a game that is no longer consistent. Every participant is told and the game is dropped
// NOTE: must only be called from the run loop
func (d *Dealer) halt(err error) {
	d.logger.WithError(err).Error("integrity violation, halting game")

	msg := protocol.NewMessage("", &protocol.Error{
		Code:    protocol.CodeIntegrityViolation,
		Message: err.Error(),
	})

	for _, c := range d.conns {
		d.send(c, msg)
	}

	for _, c := range d.spectators {
		d.send(c, msg)
	}

	d.pitBoss.publisher.Publish(d.id, msg)
	d.shutdown("integrity violation")
}

// shutdown removes the game from the registry and stops the run loop
// NOTE: must only be called from the run loop
func (d *Dealer) shutdown(reason string) {
	if d.closed {
		return
	}

	d.closed = true
	d.logger.WithField("reason", reason).Info("closing game")

	d.stopTimers()
	d.sessions.InvalidateGame(d.id)
	d.pitBoss.removeDealer(d.id)
	d.conns = make(map[string]Conn)
	d.spectators = make(map[string]Conn)
	d.EndShift()
}
