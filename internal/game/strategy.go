package game

import (
	"fmt"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

// Strategy is the decision maker behind a Player. Every call blocks the
// engine until it returns; the engine never mutates state while a call is
// outstanding.
type Strategy interface {
	// ChooseAction returns a legal primary action for the active player.
	ChooseAction(view GameView) (Action, error)
	// ChooseCounteraction returns a block or challenge for player, or nil to
	// decline.
	ChooseCounteraction(view GameView, player string) (*Action, error)
	// ChooseInfluenceToLose returns one of player's hidden influences.
	ChooseInfluenceToLose(view GameView, player string) (Influence, error)
	// ChooseExchange splits the viewer's hand plus drawn into the cards to
	// keep and the cards to return to the deck.
	ChooseExchange(view GameView, drawn []Influence) (keep, ret []Influence, err error)
}

// CounterPolicy decides which counteraction, if any, is accepted from the
// candidates during a response window. It returns the candidate whose
// strategy made the offer alongside the offer itself.
type CounterPolicy interface {
	Collect(gs *GameState, candidates []*Player) (*Player, *Action, error)
}

// FirstOfferWins polls candidates in order and accepts the first offer.
type FirstOfferWins struct{}

// Collect implements CounterPolicy.
func (FirstOfferWins) Collect(gs *GameState, candidates []*Player) (*Player, *Action, error) {
	for _, p := range candidates {
		offer, err := p.Strategy().ChooseCounteraction(gs.Snapshot(p.Name()), p.Name())
		if err != nil {
			return nil, nil, fmt.Errorf("%s choosing counteraction: %w", p.Name(), err)
		}
		if offer == nil {
			gs.publish(rules.NewEvent(rules.EventCounteractionDeclined, p.Name(), "", ""))
			continue
		}
		if offer.User == "" {
			offer.User = p.Name()
		}
		return p, offer, nil
	}
	return nil, nil, nil
}
