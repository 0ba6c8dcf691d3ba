package game

import "fmt"

// Shuffler is the injected randomness source. *rand.Rand satisfies it; tests
// pass a seeded one for deterministic deals.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck is the court: the undealt character cards.
type Deck struct {
	cards []Influence
	rng   Shuffler
}

// NewDeck creates a full, shuffled court deck.
func NewDeck(rng Shuffler) *Deck {
	d := &Deck{
		cards: make([]Influence, 0, DeckSize),
		rng:   rng,
	}
	d.Reset()
	return d
}

// Reset refills the deck with three of each character and shuffles it.
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for _, inf := range Influences() {
		for i := 0; i < CopiesPerInfluence; i++ {
			d.cards = append(d.cards, inf)
		}
	}
	d.Shuffle()
}

// Shuffle randomises the order of the remaining cards.
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Influence, error) {
	if len(d.cards) == 0 {
		return NoInfluence, ErrEmptyDeck
	}
	idx := len(d.cards) - 1
	card := d.cards[idx]
	d.cards = d.cards[:idx]
	return card, nil
}

// DrawN draws n cards. On failure no cards are removed.
func (d *Deck) DrawN(n int) ([]Influence, error) {
	if n > len(d.cards) {
		return nil, fmt.Errorf("drawing %d of %d cards: %w", n, len(d.cards), ErrEmptyDeck)
	}
	drawn := make([]Influence, 0, n)
	for i := 0; i < n; i++ {
		card, err := d.Draw()
		if err != nil {
			return nil, err
		}
		drawn = append(drawn, card)
	}
	return drawn, nil
}

// Return puts cards back into the deck and reshuffles.
func (d *Deck) Return(cards ...Influence) {
	if len(cards) == 0 {
		return
	}
	d.cards = append(d.cards, cards...)
	d.Shuffle()
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Counts returns how many cards of each kind remain.
func (d *Deck) Counts() map[Influence]int {
	return countInfluences(d.cards)
}
