package strategy

import (
	"math/rand/v2"

	"github.com/magefree/coup-engine-go/internal/game"
)

// Random picks uniformly among the legal actions and responds with the
// configured probability. It bluffs freely.
type Random struct {
	rng           *rand.Rand
	challengeRate float64
}

// NewRandom creates a random strategy. challengeRate is clamped to [0, 1].
func NewRandom(rng *rand.Rand, challengeRate float64) *Random {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Random{
		rng:           rng,
		challengeRate: min(max(challengeRate, 0), 1),
	}
}

// ChooseAction implements game.Strategy.
func (s *Random) ChooseAction(view game.GameView) (game.Action, error) {
	if len(view.LegalActions) == 0 {
		return game.Action{}, ErrNoLegalAction
	}
	return view.LegalActions[s.rng.IntN(len(view.LegalActions))], nil
}

// ChooseCounteraction implements game.Strategy.
func (s *Random) ChooseCounteraction(view game.GameView, _ string) (*game.Action, error) {
	if len(view.LegalActions) == 0 || s.rng.Float64() >= s.challengeRate {
		return nil, nil
	}
	a := view.LegalActions[s.rng.IntN(len(view.LegalActions))]
	return &a, nil
}

// ChooseInfluenceToLose implements game.Strategy.
func (s *Random) ChooseInfluenceToLose(view game.GameView, _ string) (game.Influence, error) {
	me, err := self(view)
	if err != nil {
		return game.NoInfluence, err
	}
	if len(me.Hidden) == 0 {
		return game.NoInfluence, ErrNoLegalAction
	}
	return me.Hidden[s.rng.IntN(len(me.Hidden))], nil
}

// ChooseExchange implements game.Strategy.
func (s *Random) ChooseExchange(view game.GameView, drawn []game.Influence) ([]game.Influence, []game.Influence, error) {
	me, err := self(view)
	if err != nil {
		return nil, nil, err
	}
	keep, ret := splitRandom(s.rng, me.Hidden, drawn)
	return keep, ret, nil
}
