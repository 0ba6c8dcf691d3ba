// Package strategy provides decision makers that plug into game.Player.
package strategy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/magefree/coup-engine-go/internal/game"
)

// ErrNoLegalAction is returned when a strategy is asked to act but the view
// offers nothing legal.
var ErrNoLegalAction = errors.New("no legal action available")

// ErrUnknownStrategy is returned by New for an unrecognised name.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Names lists the strategies New understands.
func Names() []string {
	return []string{"honest", "random", "interactive"}
}

// New builds a strategy by name. prompter is only used by "interactive".
func New(name string, rng *rand.Rand, challengeRate float64, prompter Prompter) (game.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "honest":
		return NewHonest(rng), nil
	case "random":
		return NewRandom(rng, challengeRate), nil
	case "interactive":
		if prompter == nil {
			return nil, fmt.Errorf("interactive strategy needs a prompter")
		}
		return NewInteractive(prompter), nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
}

func self(view game.GameView) (game.PlayerView, error) {
	p, ok := view.Self()
	if !ok {
		return game.PlayerView{}, fmt.Errorf("viewer %q is not seated", view.Viewer)
	}
	return p, nil
}

// splitRandom shuffles hand+drawn and keeps the first len(hand) cards.
func splitRandom(rng *rand.Rand, hand, drawn []game.Influence) (keep, ret []game.Influence) {
	pool := append(append([]game.Influence{}, hand...), drawn...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:len(hand):len(hand)], pool[len(hand):]
}
