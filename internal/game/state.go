package game

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

// GameState aggregates the players, turn rotation, action stack and deck of a
// single game. It is owned by one Game and is not safe for concurrent use.
type GameState struct {
	id      string
	players []*Player
	order   *rules.TurnOrder
	stack   *rules.Stack[*Action]
	deck    *Deck
	out     []string
	bus     *rules.EventBus
	logger  *zap.Logger
}

func newGameState(players []*Player, rng Shuffler, bus *rules.EventBus, logger *zap.Logger) *GameState {
	gs := &GameState{
		players: players,
		stack:   rules.NewStack[*Action](),
		deck:    NewDeck(rng),
		bus:     bus,
		logger:  logger,
	}
	return gs
}

// reset deals a fresh game to the same players under a new id.
func (gs *GameState) reset() error {
	gs.id = uuid.New().String()
	gs.stack.Clear()
	gs.deck.Reset()
	gs.out = nil

	seats := make([]string, 0, len(gs.players))
	for _, p := range gs.players {
		p.reset()
		hand, err := gs.deck.DrawN(StartingInfluences)
		if err != nil {
			return fmt.Errorf("dealing to %s: %w", p.Name(), err)
		}
		p.setHidden(hand)
		seats = append(seats, p.Name())
	}
	gs.order = rules.NewTurnOrder(seats)
	return nil
}

// ID returns the current game id.
func (gs *GameState) ID() string { return gs.id }

// Players returns every seated player, eliminated or not, in seat order.
func (gs *GameState) Players() []*Player {
	out := make([]*Player, len(gs.players))
	copy(out, gs.players)
	return out
}

// Player looks a player up by name.
func (gs *GameState) Player(name string) *Player {
	for _, p := range gs.players {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// ActivePlayer returns the player whose turn it is.
func (gs *GameState) ActivePlayer() *Player {
	return gs.Player(gs.order.ActivePlayer())
}

// TurnNumber returns the 1-based turn counter.
func (gs *GameState) TurnNumber() int { return gs.order.TurnNumber() }

// Phase returns where the current turn is in its state machine.
func (gs *GameState) Phase() rules.Phase { return gs.order.Phase() }

// TurnOrder returns the names still in rotation, active player first.
func (gs *GameState) TurnOrder() []string { return gs.order.Rotation() }

// DeckSize returns the number of cards left in the court.
func (gs *GameState) DeckSize() int { return gs.deck.Len() }

// Pending returns copies of the stacked actions, bottom first.
func (gs *GameState) Pending() []Action {
	items := gs.stack.List()
	out := make([]Action, 0, len(items))
	for _, a := range items {
		out = append(out, *a)
	}
	return out
}

// IsOver reports whether at most one player remains in rotation.
func (gs *GameState) IsOver() bool {
	return gs.order.Len() <= 1
}

// Winner returns the last player standing once the game is over.
func (gs *GameState) Winner() *Player {
	if !gs.IsOver() {
		return nil
	}
	return gs.ActivePlayer()
}

// KnockedOut returns eliminated players in the order they went out.
func (gs *GameState) KnockedOut() []string {
	return append([]string(nil), gs.out...)
}

// TotalCoins sums every player's purse.
func (gs *GameState) TotalCoins() int {
	total := 0
	for _, p := range gs.players {
		total += p.Coins()
	}
	return total
}

func (gs *GameState) push(a *Action) {
	gs.stack.Push(a)
	gs.logger.Debug("action pushed",
		zap.String("game_id", gs.id),
		zap.Stringer("action", a),
		zap.Int("depth", gs.stack.Len()),
	)
}

// ResolveStack drains the stack top first, applying each action that still
// succeeds. Resolving an empty stack does nothing.
func (gs *GameState) ResolveStack() error {
	for !gs.stack.IsEmpty() {
		action, err := gs.stack.Pop()
		if err != nil {
			return err
		}
		if !action.Succeeds {
			gs.logger.Debug("skipping nullified action",
				zap.String("game_id", gs.id),
				zap.Stringer("action", action),
			)
			gs.publish(rules.NewEvent(rules.EventStackItemSkipped, action.User, action.Target, action.ID))
			continue
		}
		resolving := rules.NewEvent(rules.EventStackItemResolving, action.User, action.Target, action.ID)
		resolving.Data = action.Kind.String()
		gs.publish(resolving)
		if err := action.Variant().resolve(gs, action); err != nil {
			gs.stack.Clear()
			return fmt.Errorf("resolving %s: %w", action, err)
		}
		resolved := rules.NewEvent(rules.EventStackItemResolved, action.User, action.Target, action.ID)
		resolved.Data = action.Kind.String()
		gs.publish(resolved)
	}
	return nil
}

// CheckInvariants verifies card conservation and that no eliminated player is
// still in rotation.
func (gs *GameState) CheckInvariants() error {
	cards := gs.deck.Len()
	for _, p := range gs.players {
		cards += p.InfluenceCount() + len(p.revealed)
		if p.Coins() < 0 {
			return fmt.Errorf("%s has %d coins: %w", p.Name(), p.Coins(), ErrInvariantViolated)
		}
	}
	if cards != DeckSize {
		return fmt.Errorf("%d cards in circulation, want %d: %w", cards, DeckSize, ErrInvariantViolated)
	}
	for _, name := range gs.order.Rotation() {
		if p := gs.Player(name); p == nil || !p.IsAlive() {
			return fmt.Errorf("eliminated player %s still in rotation: %w", name, ErrInvariantViolated)
		}
	}
	return nil
}

func (gs *GameState) disqualify(p *Player, source string) {
	p.Disqualify()
	gs.logger.Warn("player disqualified",
		zap.String("game_id", gs.id),
		zap.String("player", p.Name()),
	)
	gs.publish(rules.NewEvent(rules.EventPlayerDisqualified, p.Name(), "", source))
	gs.eliminated(p, source)
}

func (gs *GameState) eliminated(p *Player, source string) {
	gs.out = append(gs.out, p.Name())
	gs.publish(rules.NewEvent(rules.EventPlayerEliminated, p.Name(), "", source))
}

// publish stamps the event with this game's id and delivers it.
func (gs *GameState) publish(evt rules.Event) {
	evt.ID = uuid.New().String()
	evt.GameID = gs.id
	if evt.Description == "" {
		evt.Description = describe(evt)
	}
	if gs.bus != nil {
		gs.bus.Publish(evt)
	}
}

func describe(evt rules.Event) string {
	switch evt.Type {
	case rules.EventCoinsGained:
		return fmt.Sprintf("%s gains %d coins", evt.PlayerID, evt.Amount)
	case rules.EventCoinsLost:
		return fmt.Sprintf("%s loses %d coins", evt.PlayerID, evt.Amount)
	case rules.EventCostPaid:
		return fmt.Sprintf("%s pays %d coins", evt.PlayerID, evt.Amount)
	case rules.EventInfluenceLost:
		return fmt.Sprintf("%s reveals %s", evt.PlayerID, evt.Data)
	case rules.EventInfluenceReplaced:
		return fmt.Sprintf("%s proves %s and draws a replacement", evt.PlayerID, evt.Data)
	case rules.EventChallengeWon:
		return fmt.Sprintf("%s wins the challenge against %s", evt.PlayerID, evt.TargetID)
	case rules.EventChallengeLost:
		return fmt.Sprintf("%s loses the challenge against %s", evt.PlayerID, evt.TargetID)
	case rules.EventPlayerEliminated:
		return fmt.Sprintf("%s is eliminated", evt.PlayerID)
	case rules.EventPlayerDisqualified:
		return fmt.Sprintf("%s is disqualified", evt.PlayerID)
	case rules.EventGameOver:
		if evt.PlayerID == "" {
			return "game over"
		}
		return fmt.Sprintf("%s wins", evt.PlayerID)
	}
	if evt.Data != "" {
		return fmt.Sprintf("%s: %s", evt.Type, evt.Data)
	}
	return string(evt.Type)
}
