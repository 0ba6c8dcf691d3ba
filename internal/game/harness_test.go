package game

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

// stubStrategy plays scripted actions, then the first legal action. Responses
// and choices default to declining, revealing the first hidden card and
// keeping the current hand.
type stubStrategy struct {
	actions  []Action
	counter  func(view GameView, player string) *Action
	lose     func(view GameView, player string) Influence
	exchange func(view GameView, drawn []Influence) ([]Influence, []Influence)

	views []GameView
}

func (s *stubStrategy) ChooseAction(view GameView) (Action, error) {
	s.views = append(s.views, view)
	if len(s.actions) > 0 {
		next := s.actions[0]
		s.actions = s.actions[1:]
		return next, nil
	}
	if len(view.LegalActions) == 0 {
		return Action{}, nil
	}
	return view.LegalActions[0], nil
}

func (s *stubStrategy) ChooseCounteraction(view GameView, player string) (*Action, error) {
	s.views = append(s.views, view)
	if s.counter == nil {
		return nil, nil
	}
	return s.counter(view, player), nil
}

func (s *stubStrategy) ChooseInfluenceToLose(view GameView, player string) (Influence, error) {
	if s.lose != nil {
		return s.lose(view, player), nil
	}
	self, _ := view.Self()
	return self.Hidden[0], nil
}

func (s *stubStrategy) ChooseExchange(view GameView, drawn []Influence) ([]Influence, []Influence, error) {
	if s.exchange != nil {
		keep, ret := s.exchange(view, drawn)
		return keep, ret, nil
	}
	self, _ := view.Self()
	return self.Hidden, drawn, nil
}

// respondTo returns a counter func that answers the first pending action of
// kind with response.
func respondTo(kind, response ActionKind) func(GameView, string) *Action {
	return func(view GameView, player string) *Action {
		top, ok := view.StackTop()
		if !ok || top.Kind != kind {
			return nil
		}
		a := NewAction(response, player)
		return &a
	}
}

type tableHarness struct {
	t      *testing.T
	game   *Game
	stubs  map[string]*stubStrategy
	events []rules.Event
}

func newTableHarness(t *testing.T, names ...string) *tableHarness {
	t.Helper()
	h := &tableHarness{t: t, stubs: make(map[string]*stubStrategy)}

	players := make([]*Player, 0, len(names))
	for _, name := range names {
		stub := &stubStrategy{}
		h.stubs[name] = stub
		players = append(players, NewPlayer(name, stub))
	}

	bus := rules.NewEventBus()
	bus.Subscribe(func(evt rules.Event) {
		h.events = append(h.events, evt)
	})

	game, err := NewGame(players,
		WithLogger(zaptest.NewLogger(t)),
		WithRand(rand.New(rand.NewPCG(7, 11))),
		WithEventBus(bus),
	)
	require.NoError(t, err)
	h.game = game
	return h
}

func (h *tableHarness) state() *GameState { return h.game.state }

func (h *tableHarness) player(name string) *Player {
	p := h.game.state.Player(name)
	if p == nil {
		h.t.Fatalf("no player %s", name)
	}
	return p
}

func (h *tableHarness) stub(name string) *stubStrategy { return h.stubs[name] }

// setHands returns every hand to the deck, deals the listed cards, and fills
// unlisted players from what remains.
func (h *tableHarness) setHands(hands map[string][]Influence) {
	h.t.Helper()
	gs := h.game.state
	for _, p := range gs.players {
		gs.deck.cards = append(gs.deck.cards, p.hidden...)
		p.hidden = nil
	}
	for _, p := range gs.players {
		for _, card := range hands[p.Name()] {
			idx := slices.Index(gs.deck.cards, card)
			if idx < 0 {
				h.t.Fatalf("no %s left in deck for %s", card, p.Name())
			}
			gs.deck.cards = slices.Delete(gs.deck.cards, idx, idx+1)
			p.hidden = append(p.hidden, card)
		}
	}
	for _, p := range gs.players {
		if _, ok := hands[p.Name()]; ok {
			continue
		}
		cards, err := gs.deck.DrawN(StartingInfluences)
		require.NoError(h.t, err)
		p.hidden = cards
	}
	require.NoError(h.t, gs.CheckInvariants())
}

func (h *tableHarness) setCoins(name string, coins int) {
	h.player(name).coins = coins
}

func (h *tableHarness) script(name string, actions ...Action) {
	h.stub(name).actions = append(h.stub(name).actions, actions...)
}

func (h *tableHarness) playTurn() {
	h.t.Helper()
	require.NoError(h.t, h.game.PlayTurn())
}

func (h *tableHarness) eventTypes() []rules.EventType {
	out := make([]rules.EventType, 0, len(h.events))
	for _, evt := range h.events {
		out = append(out, evt.Type)
	}
	return out
}

func (h *tableHarness) cardsInCirculation() int {
	gs := h.game.state
	total := gs.deck.Len()
	for _, p := range gs.players {
		total += p.InfluenceCount() + len(p.Revealed())
	}
	return total
}
