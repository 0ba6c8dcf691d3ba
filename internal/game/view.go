package game

import (
	"github.com/magefree/coup-engine-go/internal/game/rules"
)

// GameView is a read-only snapshot of the table from one player's seat.
// Hidden influences are only filled in for the viewer.
type GameView struct {
	GameID       string
	Turn         int
	Phase        rules.Phase
	Viewer       string
	ActivePlayer string
	TurnOrder    []string
	Players      []PlayerView
	Stack        []ActionView
	DeckSize     int
	LegalActions []Action
	Over         bool
	Winner       string
}

// PlayerView is the public face of a player.
type PlayerView struct {
	Name           string
	Seat           int
	Coins          int
	InfluenceCount int
	Hidden         []Influence
	Revealed       []Influence
	Alive          bool
}

// ActionView describes a pending stack entry.
type ActionView struct {
	ID       string
	Kind     ActionKind
	Name     string
	User     string
	Target   string
	Succeeds bool
}

// Player returns the named player's view.
func (v GameView) Player(name string) (PlayerView, bool) {
	for _, p := range v.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerView{}, false
}

// Self returns the viewer's own view.
func (v GameView) Self() (PlayerView, bool) {
	return v.Player(v.Viewer)
}

// StackTop returns the most recently declared pending action.
func (v GameView) StackTop() (ActionView, bool) {
	if len(v.Stack) == 0 {
		return ActionView{}, false
	}
	return v.Stack[len(v.Stack)-1], true
}

// Opponents returns the living players other than the viewer, in seat order.
func (v GameView) Opponents() []PlayerView {
	var out []PlayerView
	for _, p := range v.Players {
		if p.Name != v.Viewer && p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// Snapshot builds the view for viewer. An empty viewer yields the public view.
func (gs *GameState) Snapshot(viewer string) GameView {
	view := GameView{
		GameID:       gs.id,
		Turn:         gs.order.TurnNumber(),
		Phase:        gs.order.Phase(),
		Viewer:       viewer,
		ActivePlayer: gs.order.ActivePlayer(),
		TurnOrder:    gs.order.Rotation(),
		DeckSize:     gs.deck.Len(),
		Over:         gs.IsOver(),
	}
	if w := gs.Winner(); w != nil {
		view.Winner = w.Name()
	}
	for seat, p := range gs.players {
		pv := PlayerView{
			Name:           p.Name(),
			Seat:           seat,
			Coins:          p.Coins(),
			InfluenceCount: p.InfluenceCount(),
			Revealed:       p.Revealed(),
			Alive:          p.IsAlive(),
		}
		if viewer != "" && p.Name() == viewer {
			pv.Hidden = p.Hidden()
		}
		view.Players = append(view.Players, pv)
	}
	for _, a := range gs.stack.List() {
		view.Stack = append(view.Stack, ActionView{
			ID:       a.ID,
			Kind:     a.Kind,
			Name:     a.Kind.String(),
			User:     a.User,
			Target:   a.Target,
			Succeeds: a.Succeeds,
		})
	}
	if viewer != "" && !view.Over && view.Phase < rules.PhaseResolve {
		view.LegalActions = gs.LegalActions(viewer)
	}
	return view
}
