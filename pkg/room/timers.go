package room

import (
	"time"

	"github.com/sirupsen/logrus"

	"jaffre-server/pkg/bot"
	"jaffre-server/pkg/game"
	"jaffre-server/pkg/protocol"
)

// resetTurnTimer gives the seat whose turn it is a fresh deadline. Bots don't get one.
// A generation counter discards timers that fire after they were replaced
// NOTE: must only be called from the run loop
func (d *Dealer) resetTurnTimer() {
	if d.turnTimer != nil {
		d.turnTimer.Stop()
		d.turnTimer = nil
	}

	d.turnGen++
	d.turnDeadline = nil

	current := d.game.CurrentPlayer()
	if current == nil || current.IsBot || d.turnTimeout <= 0 {
		return
	}

	deadline := time.Now().Add(d.turnTimeout)
	d.turnDeadline = &deadline

	gen, playerID := d.turnGen, current.ID
	d.turnTimer = time.AfterFunc(d.turnTimeout, func() {
		d.exec(func() {
			if gen == d.turnGen {
				d.turnExpired(playerID)
			}
		})
	})
}

// turnExpired takes the automatic action for a seat that ran out of time
func (d *Dealer) turnExpired(playerID string) {
	current := d.game.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return
	}

	cmd, ok := bot.Auto.Decide(d.game.View(playerID), playerID)
	if !ok {
		return
	}

	log := d.logger.WithField("playerId", playerID)
	log.WithField("command", cmd.CommandType()).Info("turn timed out")
	if err := d.apply(playerID, "", cmd); err != nil {
		log.WithError(err).Error("could not take automatic action")
	}
}

// scheduleBots lets the first bot with something to do act after the bot delay
// NOTE: must only be called from the run loop
func (d *Dealer) scheduleBots() {
	if d.botTimer != nil {
		d.botTimer.Stop()
		d.botTimer = nil
	}

	d.botGen++
	if _, _, ok := d.nextBotMove(); !ok {
		return
	}

	gen := d.botGen
	d.botTimer = time.AfterFunc(d.botDelay, func() {
		d.exec(func() {
			if gen == d.botGen {
				d.runBot()
			}
		})
	})
}

// nextBotMove returns the first bot in seat order that wants to act, and what it does
func (d *Dealer) nextBotMove() (*game.Player, protocol.Command, bool) {
	for _, p := range d.game.Bots() {
		strategy, err := bot.New(p.BotDifficulty)
		if err != nil {
			d.logger.WithError(err).WithField("playerId", p.ID).Warn("bot has no strategy")
			strategy = bot.Auto
		}

		if cmd, ok := strategy.Decide(d.game.View(p.ID), p.ID); ok {
			return p, cmd, true
		}
	}

	return nil, nil, false
}

func (d *Dealer) runBot() {
	p, cmd, ok := d.nextBotMove()
	if !ok {
		return
	}

	log := d.logger.WithFields(logrus.Fields{
		"playerId": p.ID,
		"command":  cmd.CommandType(),
	})

	err := d.apply(p.ID, "", cmd)
	if err == nil {
		return
	}

	log.WithError(err).Warn("bot command was rejected")
	fallback, ok := bot.Auto.Decide(d.game.View(p.ID), p.ID)
	if !ok {
		return
	}

	if err := d.apply(p.ID, "", fallback); err != nil {
		log.WithError(err).Error("bot could not take automatic action")
	}
}

func (d *Dealer) stopTimers() {
	d.turnGen++
	d.botGen++
	d.turnDeadline = nil

	if d.turnTimer != nil {
		d.turnTimer.Stop()
		d.turnTimer = nil
	}

	if d.botTimer != nil {
		d.botTimer.Stop()
		d.botTimer = nil
	}
}
