package game

import (
	"fmt"
	"strings"
)

// Influence is a character card. Cards of the same kind are interchangeable.
type Influence int

const (
	// NoInfluence is the zero value; used as "no requirement".
	NoInfluence Influence = iota
	Duke
	Assassin
	Captain
	Ambassador
	Contessa
)

const (
	// CopiesPerInfluence is the number of cards of each kind in the court.
	CopiesPerInfluence = 3
	// DeckSize is the number of cards in circulation for the whole game.
	DeckSize = CopiesPerInfluence * 5
	// StartingInfluences is the number of cards dealt to each player.
	StartingInfluences = 2
)

var influenceNames = map[Influence]string{
	NoInfluence: "None",
	Duke:        "Duke",
	Assassin:    "Assassin",
	Captain:     "Captain",
	Ambassador:  "Ambassador",
	Contessa:    "Contessa",
}

func (i Influence) String() string {
	if name, ok := influenceNames[i]; ok {
		return name
	}
	return fmt.Sprintf("INFLUENCE_%d", int(i))
}

// Influences returns the five character kinds in a stable order.
func Influences() []Influence {
	return []Influence{Duke, Assassin, Captain, Ambassador, Contessa}
}

// ParseInfluence resolves a character name, ignoring case.
func ParseInfluence(name string) (Influence, error) {
	name = strings.TrimSpace(name)
	for _, inf := range Influences() {
		if strings.EqualFold(inf.String(), name) {
			return inf, nil
		}
	}
	return NoInfluence, fmt.Errorf("unknown influence %q", name)
}

// countInfluences builds a multiset of cards.
func countInfluences(cards ...[]Influence) map[Influence]int {
	counts := make(map[Influence]int, 5)
	for _, set := range cards {
		for _, c := range set {
			counts[c]++
		}
	}
	return counts
}

// sameMultiset reports whether a and b hold the same cards, ignoring order.
func sameMultiset(a, b map[Influence]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
