package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

func TestNewGameRejectsBadSeating(t *testing.T) {
	stub := &stubStrategy{}
	tests := []struct {
		name    string
		players []*Player
	}{
		{"no players", nil},
		{"single player", []*Player{NewPlayer("Alice", stub)}},
		{"duplicate names", []*Player{NewPlayer("Alice", stub), NewPlayer("Alice", stub)}},
		{"missing strategy", []*Player{NewPlayer("Alice", stub), NewPlayer("Bob", nil)}},
		{"empty name", []*Player{NewPlayer("", stub), NewPlayer("Bob", stub)}},
		{"too many players", func() []*Player {
			var out []*Player
			for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
				out = append(out, NewPlayer(name, stub))
			}
			return out
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGame(tt.players)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPlayers))
		})
	}
}

func TestIncomeForeignAidTaxYields(t *testing.T) {
	tests := []struct {
		kind  ActionKind
		yield int
	}{
		{ActionIncome, 1},
		{ActionForeignAid, 2},
		{ActionTax, 3},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			h := newTableHarness(t, "Alice", "Bob")
			before := h.state().TotalCoins()
			h.script("Alice", NewAction(tt.kind, "Alice"))
			h.playTurn()

			assert.Equal(t, 3+tt.yield, h.player("Alice").Coins())
			assert.Equal(t, before+tt.yield, h.state().TotalCoins())
			assert.Equal(t, "Bob", h.state().ActivePlayer().Name())
			assert.Equal(t, 2, h.state().TurnNumber())
		})
	}
}

func TestCoupCostsSevenAndRemovesInfluence(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob")
	h.setCoins("Alice", 8)
	before := h.state().TotalCoins()

	h.script("Alice", NewTargetedAction(ActionCoup, "Alice", "Bob"))
	h.playTurn()

	assert.Equal(t, 1, h.player("Alice").Coins())
	assert.Equal(t, before-7, h.state().TotalCoins())
	assert.Len(t, h.player("Bob").Hidden(), 1)
	assert.Len(t, h.player("Bob").Revealed(), 1)
}

func TestForeignAidBlockedByDukeClaim(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob")
	h.script("Alice", NewAction(ActionForeignAid, "Alice"))
	h.stub("Bob").counter = func(view GameView, player string) *Action {
		kinds := make([]ActionKind, 0, len(view.LegalActions))
		for _, a := range view.LegalActions {
			kinds = append(kinds, a.Kind)
		}
		assert.Equal(t, []ActionKind{ActionBlockForeignAid}, kinds)
		a := NewAction(ActionBlockForeignAid, player)
		return &a
	}

	h.playTurn()

	assert.Equal(t, 3, h.player("Alice").Coins())
	assert.Contains(t, h.eventTypes(), rules.EventStackItemNullified)
	assert.Contains(t, h.eventTypes(), rules.EventStackItemSkipped)
}

func TestTwoPlayerBlockCannotBeChallengedByActivePlayer(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob")
	h.script("Alice", NewAction(ActionForeignAid, "Alice"))
	h.stub("Bob").counter = respondTo(ActionForeignAid, ActionBlockForeignAid)

	var aliceOptions []Action
	polled := false
	h.stub("Alice").counter = func(view GameView, player string) *Action {
		polled = true
		aliceOptions = view.LegalActions
		return nil
	}

	h.playTurn()

	assert.True(t, polled)
	assert.Empty(t, aliceOptions)
	assert.Equal(t, 3, h.player("Alice").Coins())
}

func TestSecondWindowExcludesCounteractingPlayer(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob", "Carol")
	h.script("Alice", NewAction(ActionForeignAid, "Alice"))

	bobPolls := 0
	h.stub("Bob").counter = func(view GameView, player string) *Action {
		bobPolls++
		return respondTo(ActionForeignAid, ActionBlockForeignAid)(view, player)
	}
	carolPolls := 0
	h.stub("Carol").counter = func(GameView, string) *Action {
		carolPolls++
		return nil
	}

	h.playTurn()

	assert.Equal(t, 1, bobPolls)
	assert.Equal(t, 1, carolPolls)
}

func TestIllegalActionIsFatal(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob")
	h.script("Alice", NewTargetedAction(ActionAssassinate, "Alice", "Bob"))
	h.setCoins("Alice", 2)

	err := h.game.PlayTurn()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalAction))

	var illegal *IllegalActionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, ActionAssassinate, illegal.Action.Kind)
	assert.Equal(t, "Not enough coins", illegal.Result.Reason)
	assert.Equal(t, "3", illegal.Result.Details["cost"])
	assert.Equal(t, 0, h.state().stack.Len())
}

func TestIllegalCounteractionIsFatal(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob", "Carol")
	h.script("Alice", NewTargetedAction(ActionSteal, "Alice", "Bob"))
	h.stub("Bob").counter = func(GameView, string) *Action { return nil }
	h.stub("Carol").counter = respondTo(ActionSteal, ActionBlockStealingCaptain)

	err := h.game.PlayTurn()

	var illegal *IllegalActionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, "Only the target may block", illegal.Result.Reason)
}

func TestCounteractionInAnotherPlayersNameIsFatal(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob", "Carol")
	h.script("Alice", NewAction(ActionForeignAid, "Alice"))
	h.stub("Bob").counter = func(GameView, string) *Action {
		a := NewAction(ActionBlockForeignAid, "Carol")
		return &a
	}
	carolPolls := 0
	h.stub("Carol").counter = func(GameView, string) *Action {
		carolPolls++
		return nil
	}

	err := h.game.PlayTurn()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalAction))

	var illegal *IllegalActionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, "Player was not polled", illegal.Result.Reason)
	assert.Equal(t, "Carol", illegal.Result.Details["player"])
	assert.Equal(t, "Bob", illegal.Result.Details["responder"])
	assert.Zero(t, carolPolls)
	assert.Equal(t, 1, h.state().stack.Len(), "only the foreign aid should be stacked")
	assert.NotContains(t, h.eventTypes(), rules.EventCounteractionDeclared)
}

// offerAs answers every window with a block in name's voice on behalf of the
// first candidate.
type offerAs struct{ name string }

func (o offerAs) Collect(_ *GameState, candidates []*Player) (*Player, *Action, error) {
	a := NewAction(ActionBlockForeignAid, o.name)
	return candidates[0], &a, nil
}

func TestCounterPolicyMustReportPolledResponder(t *testing.T) {
	stub := &stubStrategy{actions: []Action{NewAction(ActionForeignAid, "Alice")}}
	game, err := NewGame(
		[]*Player{NewPlayer("Alice", stub), NewPlayer("Bob", stub), NewPlayer("Carol", stub)},
		WithCounterPolicy(offerAs{name: "Carol"}),
	)
	require.NoError(t, err)

	err = game.PlayTurn()

	var illegal *IllegalActionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, "Player was not polled", illegal.Result.Reason)
	assert.Equal(t, 3, game.State().Player("Alice").Coins())
}

func TestInsufficientFundsDisqualifies(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob", "Carol")
	alice := h.player("Alice")
	coup := NewTargetedAction(ActionCoup, "Alice", "Bob")
	h.setCoins("Alice", 5)

	forfeited, err := h.game.charge(alice, &coup)
	require.NoError(t, err)
	assert.True(t, forfeited)
	assert.False(t, alice.IsAlive())
	assert.Len(t, alice.Revealed(), 2)
	assert.Equal(t, 5, alice.Coins())

	require.NoError(t, h.game.endTurn())
	assert.Equal(t, []string{"Bob", "Carol"}, h.state().TurnOrder())
	assert.Contains(t, h.eventTypes(), rules.EventPlayerDisqualified)
}

func TestExchangeKeepsChosenCards(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob")
	h.setHands(map[string][]Influence{"Alice": {Ambassador, Duke}})
	h.script("Alice", NewAction(ActionExchange, "Alice"))

	var drawnCards []Influence
	h.stub("Alice").exchange = func(view GameView, drawn []Influence) ([]Influence, []Influence) {
		drawnCards = drawn
		self, _ := view.Self()
		return drawn, self.Hidden
	}

	h.playTurn()

	require.Len(t, drawnCards, 2)
	assert.ElementsMatch(t, drawnCards, h.player("Alice").Hidden())
	assert.Equal(t, 11, h.state().DeckSize())
	assert.Equal(t, 15, h.cardsInCirculation())
}

func TestExchangeRejectsBrokenSelection(t *testing.T) {
	tests := []struct {
		name     string
		exchange func(GameView, []Influence) ([]Influence, []Influence)
	}{
		{"keeps too many", func(view GameView, drawn []Influence) ([]Influence, []Influence) {
			self, _ := view.Self()
			return append(self.Hidden, drawn[0]), drawn[1:]
		}},
		{"invents a card", func(view GameView, drawn []Influence) ([]Influence, []Influence) {
			self, _ := view.Self()
			fake := Contessa
			if drawn[0] == Contessa {
				fake = Duke
			}
			return self.Hidden, []Influence{fake, fake}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTableHarness(t, "Alice", "Bob")
			h.setHands(map[string][]Influence{"Alice": {Ambassador, Ambassador}})
			h.script("Alice", NewAction(ActionExchange, "Alice"))
			h.stub("Alice").exchange = tt.exchange

			err := h.game.PlayTurn()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidExchange))
			assert.Equal(t, []Influence{Ambassador, Ambassador}, h.player("Alice").Hidden())
			assert.Equal(t, 11, h.state().DeckSize())
			assert.Equal(t, 0, h.state().stack.Len())
		})
	}
}

func TestResolveEmptyStackIsNoop(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob")
	before := h.game.Snapshot("").Checksum()
	eventCount := len(h.events)

	require.NoError(t, h.state().ResolveStack())
	require.NoError(t, h.state().ResolveStack())

	assert.Equal(t, before, h.game.Snapshot("").Checksum())
	assert.Len(t, h.events, eventCount)
}

func TestEliminatedPlayerLeavesRotation(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob", "Carol")
	h.setHands(map[string][]Influence{"Bob": {Duke}})
	// Bob's second card goes face up so the table still holds 15 cards.
	bob := h.player("Bob")
	card, err := h.state().deck.Draw()
	require.NoError(t, err)
	bob.revealed = append(bob.revealed, card)
	h.setCoins("Alice", 7)

	h.script("Alice", NewTargetedAction(ActionCoup, "Alice", "Bob"))
	h.playTurn()

	assert.False(t, bob.IsAlive())
	assert.Equal(t, []string{"Carol", "Alice"}, h.state().TurnOrder())

	for i := 0; i < 4; i++ {
		h.playTurn()
		assert.NotContains(t, h.state().TurnOrder(), "Bob")
	}
}

func TestPlayUntilWinner(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob", "Carol")

	winner, err := h.game.Play()
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.True(t, h.game.IsOver())
	assert.Equal(t, winner, h.game.Winner())
	assert.Equal(t, rules.EventGameOver, h.events[len(h.events)-1].Type)
	assert.True(t, errors.Is(h.game.PlayTurn(), ErrGameOver))
}

func TestPlayHonoursTurnLimit(t *testing.T) {
	stub := &stubStrategy{}
	game, err := NewGame(
		[]*Player{NewPlayer("Alice", stub), NewPlayer("Bob", stub)},
		WithLogger(zaptest.NewLogger(t)),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithMaxTurns(3),
	)
	require.NoError(t, err)

	_, err = game.Play()
	assert.True(t, errors.Is(err, ErrTurnLimit))
	assert.Equal(t, 4, game.State().TurnNumber())
}

func TestResetKeepsPlayers(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob")
	oldID := h.game.ID()
	h.playTurn()
	h.playTurn()

	require.NoError(t, h.game.Reset())

	assert.NotEqual(t, oldID, h.game.ID())
	assert.Equal(t, 1, h.state().TurnNumber())
	assert.Equal(t, 11, h.state().DeckSize())
	for _, p := range h.state().Players() {
		assert.Equal(t, StartingCoins, p.Coins())
		assert.Len(t, p.Hidden(), 2)
	}
}

func TestSnapshotHidesOpponentCards(t *testing.T) {
	h := newTableHarness(t, "Alice", "Bob")

	view := h.game.Snapshot("Alice")
	self, ok := view.Self()
	require.True(t, ok)
	assert.Len(t, self.Hidden, 2)

	bob, ok := view.Player("Bob")
	require.True(t, ok)
	assert.Nil(t, bob.Hidden)
	assert.Equal(t, 2, bob.InfluenceCount)
	assert.NotEmpty(t, view.LegalActions)

	public := h.game.Snapshot("")
	for _, p := range public.Players {
		assert.Nil(t, p.Hidden)
	}
	assert.Nil(t, public.LegalActions)
}

type declineAll struct{ polled []string }

func (d *declineAll) Collect(_ *GameState, candidates []*Player) (*Player, *Action, error) {
	for _, p := range candidates {
		d.polled = append(d.polled, p.Name())
	}
	return nil, nil, nil
}

func TestCounterPolicyIsSwappable(t *testing.T) {
	policy := &declineAll{}
	stub := &stubStrategy{counter: respondTo(ActionForeignAid, ActionBlockForeignAid)}
	game, err := NewGame(
		[]*Player{NewPlayer("Alice", stub), NewPlayer("Bob", stub), NewPlayer("Carol", stub)},
		WithCounterPolicy(policy),
	)
	require.NoError(t, err)
	stub.actions = []Action{NewAction(ActionForeignAid, "Alice")}

	require.NoError(t, game.PlayTurn())

	assert.Equal(t, []string{"Bob", "Carol"}, policy.polled)
	assert.Equal(t, 5, game.State().Player("Alice").Coins())
}
