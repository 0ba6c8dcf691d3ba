package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumIgnoresIDs(t *testing.T) {
	a := GameView{GameID: "one", Turn: 3, Stack: []ActionView{{ID: "x", Name: "Tax", User: "Alice", Succeeds: true}}}
	b := GameView{GameID: "two", Turn: 3, Stack: []ActionView{{ID: "y", Name: "Tax", User: "Alice", Succeeds: true}}}

	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.Len(t, a.Checksum(), 64)
}

func TestChecksumIgnoresHiddenOrder(t *testing.T) {
	a := GameView{Players: []PlayerView{{Name: "Alice", Hidden: []Influence{Duke, Contessa}}}}
	b := GameView{Players: []PlayerView{{Name: "Alice", Hidden: []Influence{Contessa, Duke}}}}

	assert.Equal(t, a.Checksum(), b.Checksum())
}

func TestChecksumTracksState(t *testing.T) {
	base := GameView{Players: []PlayerView{{Name: "Alice", Coins: 3, Alive: true}}}
	changed := GameView{Players: []PlayerView{{Name: "Alice", Coins: 4, Alive: true}}}
	nullified := GameView{Stack: []ActionView{{Name: "Tax", User: "Alice", Succeeds: false}}}
	pending := GameView{Stack: []ActionView{{Name: "Tax", User: "Alice", Succeeds: true}}}

	assert.NotEqual(t, base.Checksum(), changed.Checksum())
	assert.NotEqual(t, nullified.Checksum(), pending.Checksum())
}
