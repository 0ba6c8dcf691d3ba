package game

import (
	"fmt"
	"slices"
)

// StartingCoins is the purse every player begins a game with.
const StartingCoins = 3

// Player owns a coin balance and hidden/revealed influence cards. Decisions
// are delegated to the Strategy supplied at construction.
type Player struct {
	name     string
	coins    int
	hidden   []Influence
	revealed []Influence
	strategy Strategy
}

// NewPlayer creates a player seated with the given strategy.
func NewPlayer(name string, strategy Strategy) *Player {
	return &Player{
		name:     name,
		coins:    StartingCoins,
		strategy: strategy,
	}
}

// Name returns the player's immutable name.
func (p *Player) Name() string { return p.name }

// Coins returns the current coin balance.
func (p *Player) Coins() int { return p.coins }

// Strategy returns the decision maker for this player.
func (p *Player) Strategy() Strategy { return p.strategy }

// Hidden returns a copy of the player's face-down influences.
func (p *Player) Hidden() []Influence { return slices.Clone(p.hidden) }

// Revealed returns a copy of the player's face-up influences.
func (p *Player) Revealed() []Influence { return slices.Clone(p.revealed) }

// InfluenceCount returns the number of face-down influences.
func (p *Player) InfluenceCount() int { return len(p.hidden) }

// IsAlive reports whether the player still holds a hidden influence.
func (p *Player) IsAlive() bool { return len(p.hidden) > 0 }

// Holds reports whether inf is among the player's hidden influences.
func (p *Player) Holds(inf Influence) bool {
	return slices.Contains(p.hidden, inf)
}

// Pay deducts cost coins. Nothing changes when the player cannot afford it.
func (p *Player) Pay(cost int) error {
	if cost < 0 {
		return fmt.Errorf("negative cost %d", cost)
	}
	if p.coins < cost {
		return fmt.Errorf("%s has %d coins, needs %d: %w", p.name, p.coins, cost, ErrInsufficientFunds)
	}
	p.coins -= cost
	return nil
}

// Gain adds n coins.
func (p *Player) Gain(n int) {
	if n > 0 {
		p.coins += n
	}
}

// Take removes up to max coins and returns how many were removed.
func (p *Player) Take(max int) int {
	amount := min(max, p.coins)
	if amount < 0 {
		return 0
	}
	p.coins -= amount
	return amount
}

// LoseInfluence moves one copy of inf from hidden to revealed.
func (p *Player) LoseInfluence(inf Influence) error {
	idx := slices.Index(p.hidden, inf)
	if idx < 0 {
		return fmt.Errorf("%s does not hold %s: %w", p.name, inf, ErrInvalidInfluenceChoice)
	}
	p.hidden = slices.Delete(p.hidden, idx, idx+1)
	p.revealed = append(p.revealed, inf)
	return nil
}

// ReplaceInfluence returns one copy of inf to the deck, which reshuffles, and
// draws a hidden replacement.
func (p *Player) ReplaceInfluence(deck *Deck, inf Influence) (Influence, error) {
	idx := slices.Index(p.hidden, inf)
	if idx < 0 {
		return NoInfluence, fmt.Errorf("%s does not hold %s: %w", p.name, inf, ErrInvalidInfluenceChoice)
	}
	p.hidden = slices.Delete(p.hidden, idx, idx+1)
	deck.Return(inf)
	card, err := deck.Draw()
	if err != nil {
		return NoInfluence, err
	}
	p.hidden = append(p.hidden, card)
	return card, nil
}

// Disqualify reveals every hidden influence at once.
func (p *Player) Disqualify() {
	p.revealed = append(p.revealed, p.hidden...)
	p.hidden = p.hidden[:0]
}

func (p *Player) setHidden(cards []Influence) {
	p.hidden = slices.Clone(cards)
}

func (p *Player) reset() {
	p.coins = StartingCoins
	p.hidden = nil
	p.revealed = nil
}
