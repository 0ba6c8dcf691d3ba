package strategy

import (
	"math/rand/v2"

	"github.com/magefree/coup-engine-go/internal/game"
)

// Honest never bluffs and never responds. It coups the strongest opponent as
// soon as it can afford to, taxes while it holds a Duke and otherwise takes
// income.
type Honest struct {
	rng *rand.Rand
}

// NewHonest creates an honest strategy. A nil rng uses a random seed.
func NewHonest(rng *rand.Rand) *Honest {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Honest{rng: rng}
}

// ChooseAction implements game.Strategy.
func (s *Honest) ChooseAction(view game.GameView) (game.Action, error) {
	me, err := self(view)
	if err != nil {
		return game.Action{}, err
	}
	if v, _ := game.LookupVariant(game.ActionCoup); me.Coins >= v.Cost {
		if target, ok := s.strongestOpponent(view); ok {
			return game.NewTargetedAction(game.ActionCoup, me.Name, target), nil
		}
	}
	for _, inf := range me.Hidden {
		if inf == game.Duke {
			return game.NewAction(game.ActionTax, me.Name), nil
		}
	}
	return game.NewAction(game.ActionIncome, me.Name), nil
}

// strongestOpponent picks the opponent with the most influence, then the most
// coins, breaking remaining ties at random.
func (s *Honest) strongestOpponent(view game.GameView) (string, bool) {
	var best []game.PlayerView
	for _, p := range view.Opponents() {
		switch {
		case len(best) == 0:
			best = []game.PlayerView{p}
		case p.InfluenceCount > best[0].InfluenceCount,
			p.InfluenceCount == best[0].InfluenceCount && p.Coins > best[0].Coins:
			best = []game.PlayerView{p}
		case p.InfluenceCount == best[0].InfluenceCount && p.Coins == best[0].Coins:
			best = append(best, p)
		}
	}
	if len(best) == 0 {
		return "", false
	}
	return best[s.rng.IntN(len(best))].Name, true
}

// ChooseCounteraction implements game.Strategy. Honest players always pass.
func (s *Honest) ChooseCounteraction(game.GameView, string) (*game.Action, error) {
	return nil, nil
}

// ChooseInfluenceToLose implements game.Strategy. A lone Duke is kept.
func (s *Honest) ChooseInfluenceToLose(view game.GameView, _ string) (game.Influence, error) {
	me, err := self(view)
	if err != nil {
		return game.NoInfluence, err
	}
	if len(me.Hidden) == 0 {
		return game.NoInfluence, ErrNoLegalAction
	}
	if len(me.Hidden) == 1 {
		return me.Hidden[0], nil
	}
	dukes := 0
	for _, inf := range me.Hidden {
		if inf == game.Duke {
			dukes++
		}
	}
	if dukes == 1 {
		for _, inf := range me.Hidden {
			if inf != game.Duke {
				return inf, nil
			}
		}
	}
	return me.Hidden[s.rng.IntN(len(me.Hidden))], nil
}

// ChooseExchange implements game.Strategy.
func (s *Honest) ChooseExchange(view game.GameView, drawn []game.Influence) ([]game.Influence, []game.Influence, error) {
	me, err := self(view)
	if err != nil {
		return nil, nil, err
	}
	keep, ret := splitRandom(s.rng, me.Hidden, drawn)
	return keep, ret, nil
}
