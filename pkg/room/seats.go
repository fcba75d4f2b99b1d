package room

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"jaffre-server/internal/util"
	"jaffre-server/pkg/game"
	"jaffre-server/pkg/protocol"
	"jaffre-server/pkg/session"
)

func (d *Dealer) create(c Conn, ctx, name string) error {
	p, err := d.game.AddPlayer(c.ID(), name)
	if err != nil {
		d.shutdown("creator could not be seated")
		return err
	}

	token, err := d.sessions.Issue(d.id, p.ID, p.Name)
	if err != nil {
		d.shutdown("could not issue session")
		return err
	}

	d.conns[p.ID] = c
	d.commit(ctx, p.ID, func(recipientID string, state *game.GameState) protocol.Event {
		if recipientID != p.ID {
			return &protocol.GameUpdated{GameState: state}
		}

		return &protocol.GameCreated{
			GameID:    d.id,
			PlayerID:  p.ID,
			Token:     token,
			GameState: state,
		}
	})

	return nil
}

func (d *Dealer) join(c Conn, ctx, name string) error {
	if _, ok := d.game.Player(c.ID()); ok {
		return protocol.ErrAlreadyInGame
	}

	if d.game.Phase() != game.PhaseTeamSelection {
		d.detachUnseated(c)
		return game.ErrGameFull
	}

	p, err := d.game.AddPlayer(c.ID(), name)
	if err != nil {
		d.detachUnseated(c)
		return err
	}

	token, err := d.sessions.Issue(d.id, p.ID, p.Name)
	if err != nil {
		_ = d.game.RemovePlayer(p.ID)
		d.detachUnseated(c)
		return err
	}

	delete(d.spectators, c.ID())
	d.conns[p.ID] = c
	d.logger.WithField("playerId", p.ID).Info("player joined")
	d.commit(ctx, p.ID, playerJoined(p, token))
	return nil
}

// detachUnseated releases the claim of a connection whose join failed, unless it is watching
func (d *Dealer) detachUnseated(c Conn) {
	if _, watching := d.spectators[c.ID()]; !watching {
		d.pitBoss.release(c.ID(), d.id)
	}
}

func (d *Dealer) spectate(c Conn, ctx string) error {
	if _, ok := d.game.Player(c.ID()); ok {
		return protocol.ErrAlreadyInGame
	}

	d.spectators[c.ID()] = c
	d.send(c, protocol.NewMessage(ctx, &protocol.SpectatorJoined{
		SpectatorID: c.ID(),
		GameState:   d.view(""),
	}))

	return nil
}

func (d *Dealer) reconnect(c Conn, ctx, token string) {
	log := d.logger.WithField("conn", c.ID())

	fail := func(reason session.Rejection) {
		log.WithField("reason", reason).Info("reconnection failed")
		d.detachUnseated(c)
		sendReconnectionFailed(c, ctx, reason)
	}

	s, err := d.sessions.Validate(token)
	if err != nil {
		var rejection session.Rejection
		if errors.As(err, &rejection) {
			fail(rejection)
			return
		}

		fail(session.RejectInvalid)
		return
	}

	if s.GameID != d.id {
		fail(session.RejectInvalid)
		return
	}

	if _, ok := d.game.Player(s.PlayerID); !ok {
		fail(session.RejectInvalid)
		return
	}

	if s.PlayerID != c.ID() {
		if _, seated := d.game.Player(c.ID()); seated {
			d.reject(c, ctx, protocol.ErrAlreadyInGame)
			return
		}
	}

	if s.PlayerID != c.ID() {
		if err := d.game.Rebind(s.PlayerID, c.ID()); err != nil {
			d.reject(c, ctx, err)
			return
		}

		// the previous transport is dropped without further events
		if old, ok := d.conns[s.PlayerID]; ok {
			delete(d.conns, s.PlayerID)
			d.pitBoss.release(old.ID(), d.id)
			old.Close("superseded")
		}
	}

	next, err := d.sessions.Reissue(token, c.ID())
	if err != nil {
		log.WithError(err).Error("could not reissue session")
		fail(session.RejectInvalid)
		return
	}

	d.sessions.Connected(d.id, c.ID())
	delete(d.spectators, c.ID())
	d.conns[c.ID()] = c
	log.WithField("oldPlayerId", s.PlayerID).Info("player reconnected")

	d.commit(ctx, c.ID(), func(recipientID string, state *game.GameState) protocol.Event {
		if recipientID != c.ID() {
			return &protocol.GameUpdated{GameState: state}
		}

		return &protocol.ReconnectionSuccessful{
			PlayerID:  c.ID(),
			Token:     next.Token,
			GameState: state,
		}
	})
}

func (d *Dealer) leave(c Conn, ctx string) error {
	if _, ok := d.spectators[c.ID()]; ok {
		delete(d.spectators, c.ID())
		d.pitBoss.release(c.ID(), d.id)
		d.send(c, protocol.NewMessage(ctx, &protocol.LeaveGameSuccess{GameID: d.id}))
		return nil
	}

	p, ok := d.game.Player(c.ID())
	if !ok {
		return protocol.ErrNotInGame
	}

	delete(d.conns, p.ID)
	d.pitBoss.release(c.ID(), d.id)
	d.send(c, protocol.NewMessage(ctx, &protocol.LeaveGameSuccess{GameID: d.id}))
	d.vacate(p, protocol.LeftVoluntarily, "", "")
	return nil
}

// vacate gives up a human's seat. In the lobby the seat is removed, during play a bot takes it over
// NOTE: must only be called from the run loop
func (d *Dealer) vacate(p *game.Player, reason, ctx, originID string) {
	id, name := p.ID, p.Name
	if reason != protocol.LeftExpired {
		// an expired session stays behind so its token keeps reporting expired
		d.sessions.Invalidate(d.id, id)
	}

	log := d.logger.WithFields(logrus.Fields{
		"playerId": id,
		"reason":   reason,
	})

	replacedBy := ""
	switch d.game.Phase() {
	case game.PhaseTeamSelection:
		if err := d.game.RemovePlayer(id); err != nil {
			log.WithError(err).Error("could not remove player")
			return
		}
	case game.PhaseGameOver:
	default:
		b, err := d.substituteBot(id, game.DefaultDifficulty)
		if err != nil {
			log.WithError(err).Error("could not hand seat to a bot")
			d.halt(err)
			return
		}

		replacedBy = b.Name
	}

	log.Info("player left")
	d.commit(ctx, originID, playerLeft(id, name, reason, replacedBy))
	d.closeIfAbandoned()
}

// substituteBot hands the seat to a new bot
func (d *Dealer) substituteBot(playerID string, difficulty game.Difficulty) (*game.Player, error) {
	return d.game.Substitute(playerID, uuid.NewString(), d.botName(), true, difficulty)
}

func (d *Dealer) botName() string {
	return util.UniqueName(func(name string) bool {
		_, taken := d.game.PlayerByName(name)
		return taken
	})
}

func (d *Dealer) replaceWithBot(c Conn, ctx string, cmd *protocol.ReplaceWithBot) error {
	requester, _ := d.game.Player(c.ID())

	difficulty := cmd.Difficulty
	if difficulty == "" {
		difficulty = game.DefaultDifficulty
	}

	if !difficulty.Valid() {
		return game.ErrInvalidDifficulty
	}

	target := requester
	if cmd.PlayerName != "" && cmd.PlayerName != requester.Name {
		p, ok := d.game.PlayerByName(cmd.PlayerName)
		if !ok {
			return game.ErrPlayerNotFound
		}

		// anyone may hand a disconnected seat to a bot, only the creator a connected one
		if _, connected := d.conns[p.ID]; connected && requester.ID != d.game.CreatorID() {
			return game.ErrNotCreator
		}

		target = p
	}

	if target.IsBot {
		return game.ErrIsABot
	}

	id, name := target.ID, target.Name
	b, err := d.substituteBot(id, difficulty)
	if err != nil {
		return err
	}

	d.sessions.Invalidate(d.id, id)

	// the replaced player keeps watching
	if conn, ok := d.conns[id]; ok {
		delete(d.conns, id)
		d.spectators[conn.ID()] = conn
	}

	d.logger.WithFields(logrus.Fields{
		"playerId": id,
		"bot":      b.Name,
	}).Info("seat handed to a bot")

	d.commit(ctx, c.ID(), playerLeft(id, name, protocol.LeftReplaced, b.Name))
	d.closeIfAbandoned()
	return nil
}

func (d *Dealer) takeOverBot(c Conn, ctx string, cmd *protocol.TakeOverBot) error {
	if _, ok := d.game.Player(c.ID()); ok {
		return protocol.ErrAlreadyInGame
	}

	b, ok := d.game.PlayerByName(cmd.BotName)
	if !ok {
		d.detachUnseated(c)
		return game.ErrPlayerNotFound
	}

	if !b.IsBot {
		d.detachUnseated(c)
		return game.ErrNotABot
	}

	p, err := d.game.Substitute(b.ID, c.ID(), cmd.PlayerName, false, "")
	if err != nil {
		d.detachUnseated(c)
		return err
	}

	token, err := d.sessions.Issue(d.id, p.ID, p.Name)
	if err != nil {
		return err
	}

	delete(d.spectators, c.ID())
	d.conns[p.ID] = c
	d.logger.WithField("playerId", p.ID).Info("player took over a bot")
	d.commit(ctx, p.ID, playerJoined(p, token))
	return nil
}

func (d *Dealer) changeBotDifficulty(c Conn, ctx string, cmd *protocol.ChangeBotDifficulty) error {
	if err := d.game.SetBotDifficulty(c.ID(), cmd.BotName, cmd.Difficulty); err != nil {
		return err
	}

	d.commit(ctx, c.ID(), gameUpdated)
	return nil
}

func (d *Dealer) kick(c Conn, ctx string, cmd *protocol.KickPlayer) error {
	if err := d.game.CheckKick(c.ID(), cmd.PlayerID); err != nil {
		return err
	}

	target, _ := d.game.Player(cmd.PlayerID)
	if target.IsBot && d.game.Phase() != game.PhaseTeamSelection {
		// a seat cannot be emptied once the game started
		return game.ErrIsABot
	}

	if conn, ok := d.conns[target.ID]; ok {
		delete(d.conns, target.ID)
		d.pitBoss.release(conn.ID(), d.id)
		conn.Send(protocol.NewMessage("", &protocol.Error{
			Code:    protocol.CodeKicked,
			Message: "you were removed from the game",
		}))
		conn.Close("kicked")
	}

	d.vacate(target, protocol.LeftKicked, ctx, c.ID())
	return nil
}

func (d *Dealer) addBot(c Conn, ctx string, cmd *protocol.AddBot) error {
	if c.ID() != d.game.CreatorID() {
		return game.ErrNotCreator
	}

	difficulty := cmd.Difficulty
	if difficulty == "" {
		difficulty = game.DefaultDifficulty
	}

	p, err := d.game.AddBot(uuid.NewString(), d.botName(), cmd.TeamID, difficulty)
	if err != nil {
		return err
	}

	d.commit(ctx, c.ID(), playerJoined(p, ""))
	return nil
}

// clientDisconnected starts the seat's session window. The seat is kept
// NOTE: must only be called from the run loop
func (d *Dealer) clientDisconnected(c Conn) {
	if _, ok := d.spectators[c.ID()]; ok {
		delete(d.spectators, c.ID())
		return
	}

	if d.conns[c.ID()] != c {
		return
	}

	delete(d.conns, c.ID())
	d.sessions.Disconnected(d.id, c.ID())
	d.logger.WithField("playerId", c.ID()).Info("player disconnected")

	if d.closeIfAbandoned() {
		return
	}

	d.broadcast("", "", gameUpdated)
}

// sessionExpired frees the seat of a player who did not come back in time
// NOTE: must only be called from the run loop
func (d *Dealer) sessionExpired(s session.Session) {
	p, ok := d.game.Player(s.PlayerID)
	if !ok || p.IsBot {
		return
	}

	if _, connected := d.conns[p.ID]; connected {
		return
	}

	d.vacate(p, protocol.LeftExpired, "", "")
}
