package game

import (
	"strings"

	"github.com/sirupsen/logrus"

	"jaffre-server/pkg/scoring"
)

// AddPlayer seats a human. The first human to sit down becomes the creator
func (g *Game) AddPlayer(id, name string) (*Player, error) {
	return g.addPlayer(&Player{ID: id, Name: strings.TrimSpace(name)})
}

// AddBot seats a bot on the team, or without a team if team is NoTeam
func (g *Game) AddBot(id, name string, team scoring.TeamID, difficulty Difficulty) (*Player, error) {
	if !difficulty.Valid() {
		return nil, ErrInvalidDifficulty
	}

	if team != scoring.NoTeam {
		if !team.Valid() {
			return nil, ErrInvalidTeam
		}

		if g.teamCount(team) >= 2 {
			return nil, ErrTeamFull
		}
	}

	return g.addPlayer(&Player{
		ID:            id,
		Name:          name,
		TeamID:        team,
		IsBot:         true,
		BotDifficulty: difficulty,
	})
}

func (g *Game) addPlayer(p *Player) (*Player, error) {
	if err := g.requirePhase(PhaseTeamSelection); err != nil {
		return nil, err
	}

	if p.Name == "" {
		return nil, ErrInvalidName
	}

	if len(g.players) >= SeatCount {
		return nil, ErrGameFull
	}

	if _, taken := g.PlayerByName(p.Name); taken {
		return nil, ErrNameTaken
	}

	g.players = append(g.players, p)
	if g.creatorID == "" && !p.IsBot {
		g.creatorID = p.ID
	}

	g.logger.WithFields(logrus.Fields{
		"playerId": p.ID,
		"name":     p.Name,
		"isBot":    p.IsBot,
	}).Debug("player seated")

	return p, nil
}

// RemovePlayer removes a player from the lobby
func (g *Game) RemovePlayer(id string) error {
	if err := g.requirePhase(PhaseTeamSelection); err != nil {
		return err
	}

	seat := g.Seat(id)
	if seat < 0 {
		return ErrPlayerNotFound
	}

	g.players = append(g.players[:seat], g.players[seat+1:]...)
	if g.creatorID == id {
		g.promoteCreator()
	}

	return nil
}

// promoteCreator hands the creator role to the first human in seat order
func (g *Game) promoteCreator() {
	g.creatorID = ""
	for _, p := range g.players {
		if !p.IsBot {
			g.creatorID = p.ID
			g.logger.WithField("playerId", p.ID).Debug("new creator")
			return
		}
	}
}

// SelectTeam moves the player to a team
func (g *Game) SelectTeam(id string, team scoring.TeamID) error {
	if err := g.requirePhase(PhaseTeamSelection); err != nil {
		return err
	}

	p, ok := g.Player(id)
	if !ok {
		return ErrPlayerNotFound
	}

	if !team.Valid() {
		return ErrInvalidTeam
	}

	if p.TeamID == team {
		return nil
	}

	if g.teamCount(team) >= 2 {
		return ErrTeamFull
	}

	p.TeamID = team
	return nil
}

// SwapPosition exchanges the seat and team of two players in the lobby
func (g *Game) SwapPosition(id, targetID string) error {
	if err := g.requirePhase(PhaseTeamSelection); err != nil {
		return err
	}

	i, j := g.Seat(id), g.Seat(targetID)
	if i < 0 || j < 0 {
		return ErrPlayerNotFound
	}

	if i == j {
		return nil
	}

	pi, pj := g.players[i], g.players[j]
	pi.TeamID, pj.TeamID = pj.TeamID, pi.TeamID
	g.players[i], g.players[j] = pj, pi
	return nil
}

// Start deals the first round. Seats are rearranged so teams alternate around the table
func (g *Game) Start(id string) error {
	if err := g.requirePhase(PhaseTeamSelection); err != nil {
		return err
	}

	if id != g.creatorID {
		return ErrNotCreator
	}

	if len(g.players) != SeatCount {
		return PlayerCountError(len(g.players))
	}

	t1, t2 := g.teamCount(scoring.Team1), g.teamCount(scoring.Team2)
	if t1 != 2 || t2 != 2 {
		return TeamBalanceError{Team1: t1, Team2: t2}
	}

	first := g.players[0].TeamID
	var same, other []*Player
	for _, p := range g.players {
		if p.TeamID == first {
			same = append(same, p)
		} else {
			other = append(other, p)
		}
	}

	g.players = []*Player{same[0], other[0], same[1], other[1]}
	g.dealerIndex = 0
	g.roundNumber = 1
	g.logger.Info("game started")

	return g.startRound()
}

// CheckKick returns nil if requester may kick target
func (g *Game) CheckKick(requesterID, targetID string) error {
	if requesterID != g.creatorID {
		return ErrNotCreator
	}

	if requesterID == targetID {
		return ErrCannotKickSelf
	}

	if _, ok := g.Player(targetID); !ok {
		return ErrPlayerNotFound
	}

	return nil
}

// Rebind moves a seat to a new connection identity. Everything else about the seat is unchanged
func (g *Game) Rebind(oldID, newID string) error {
	p, ok := g.Player(oldID)
	if !ok {
		return ErrPlayerNotFound
	}

	if oldID == newID {
		return nil
	}

	if _, taken := g.Player(newID); taken {
		return IntegrityError{Reason: "identity " + newID + " is already seated"}
	}

	p.ID = newID
	if g.creatorID == oldID {
		g.creatorID = newID
	}

	for i := range g.bets {
		if g.bets[i].PlayerID == oldID {
			g.bets[i].PlayerID = newID
		}
	}

	if g.highestBet != nil && g.highestBet.PlayerID == oldID {
		g.highestBet.PlayerID = newID
	}

	for i := range g.currentTrick {
		if g.currentTrick[i].PlayerID == oldID {
			g.currentTrick[i].PlayerID = newID
		}
	}

	for i := range g.tricks {
		g.tricks[i] = rebindTrick(g.tricks[i], oldID, newID)
	}

	if g.lastTrick != nil {
		trick := rebindTrick(*g.lastTrick, oldID, newID)
		g.lastTrick = &trick
	}

	return nil
}

// rebindTrick returns t with oldID replaced. Plays is always a new slice since
// resolved tricks may already be held by sent events
func rebindTrick(t scoring.TrickRecord, oldID, newID string) scoring.TrickRecord {
	if t.WinnerID == oldID {
		t.WinnerID = newID
	}

	plays := make([]scoring.Play, len(t.Plays))
	for i, play := range t.Plays {
		if play.PlayerID == oldID {
			play.PlayerID = newID
		}

		plays[i] = play
	}

	t.Plays = plays
	return t
}

// Substitute hands a seat to a new controller, a bot or a human, keeping its hand, stats and turn position
func (g *Game) Substitute(oldID, newID, name string, isBot bool, difficulty Difficulty) (*Player, error) {
	p, ok := g.Player(oldID)
	if !ok {
		return nil, ErrPlayerNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if other, taken := g.PlayerByName(name); taken && other != p {
		return nil, ErrNameTaken
	}

	if isBot && !difficulty.Valid() {
		return nil, ErrInvalidDifficulty
	}

	if err := g.Rebind(oldID, newID); err != nil {
		return nil, err
	}

	if g.playersReady[p.Name] {
		delete(g.playersReady, p.Name)
		g.playersReady[name] = true
	}

	p.Name = name
	p.IsBot = isBot
	p.BotDifficulty = ""
	if isBot {
		p.BotDifficulty = difficulty
	}

	if isBot && g.creatorID == newID {
		g.promoteCreator()
	} else if !isBot && g.creatorID == "" {
		g.creatorID = newID
	}

	g.logger.WithFields(logrus.Fields{
		"seat":  g.Seat(newID),
		"name":  name,
		"isBot": isBot,
	}).Info("seat substituted")

	return p, nil
}

// SetBotDifficulty changes how well a seated bot plays
func (g *Game) SetBotDifficulty(requesterID, botName string, difficulty Difficulty) error {
	if _, ok := g.Player(requesterID); !ok {
		return ErrPlayerNotFound
	}

	if !difficulty.Valid() {
		return ErrInvalidDifficulty
	}

	p, ok := g.PlayerByName(botName)
	if !ok {
		return ErrPlayerNotFound
	}

	if !p.IsBot {
		return ErrNotABot
	}

	p.BotDifficulty = difficulty
	return nil
}
