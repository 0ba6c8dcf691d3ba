package game

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"

	"golang.org/x/crypto/blake2b"
)

// Checksum returns a blake2b-256 digest of the view's deterministic content.
// Game and action ids are excluded so seeded games replay to equal sums.
func (v GameView) Checksum() string {
	sum := blake2b.Sum256([]byte(v.canonical()))
	return hex.EncodeToString(sum[:])
}

func (v GameView) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%d|%s|%s|%s|%d|%t|%s\n",
		v.Turn, v.Phase, v.Viewer, v.ActivePlayer, v.DeckSize, v.Over, v.Winner)
	fmt.Fprintf(&buf, "ORDER:%v\n", v.TurnOrder)

	for _, p := range v.Players {
		fmt.Fprintf(&buf, "PLAYER:%d|%s|%d|%d|%t\n", p.Seat, p.Name, p.Coins, p.InfluenceCount, p.Alive)
		for _, inf := range sortedInfluences(p.Hidden) {
			fmt.Fprintf(&buf, "  HIDDEN:%s\n", inf)
		}
		for _, inf := range p.Revealed {
			fmt.Fprintf(&buf, "  REVEALED:%s\n", inf)
		}
	}
	for _, a := range v.Stack {
		fmt.Fprintf(&buf, "STACK:%s|%s|%s|%t\n", a.Name, a.User, a.Target, a.Succeeds)
	}
	for _, a := range v.LegalActions {
		fmt.Fprintf(&buf, "LEGAL:%s\n", a)
	}
	return buf.String()
}

func sortedInfluences(cards []Influence) []Influence {
	out := slices.Clone(cards)
	slices.Sort(out)
	return out
}
