package strategy

import (
	"fmt"
	"slices"

	"github.com/pterm/pterm"

	"github.com/magefree/coup-engine-go/internal/game"
)

// passOption is the first choice offered in every response window.
const passOption = "Pass"

// Prompter asks a human to pick one of options and returns its index.
type Prompter interface {
	Select(prompt string, options []string) (int, error)
}

// Interactive forwards every decision to a Prompter.
type Interactive struct {
	prompter Prompter
}

// NewInteractive creates a strategy driven by prompter.
func NewInteractive(prompter Prompter) *Interactive {
	return &Interactive{prompter: prompter}
}

func (s *Interactive) pick(prompt string, options []string) (int, error) {
	idx, err := s.prompter.Select(prompt, options)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(options) {
		return 0, fmt.Errorf("selection %d out of range [0,%d)", idx, len(options))
	}
	return idx, nil
}

// ChooseAction implements game.Strategy.
func (s *Interactive) ChooseAction(view game.GameView) (game.Action, error) {
	if len(view.LegalActions) == 0 {
		return game.Action{}, ErrNoLegalAction
	}
	idx, err := s.pick(fmt.Sprintf("%s, choose your action", view.Viewer), describeActions(view.LegalActions))
	if err != nil {
		return game.Action{}, err
	}
	return view.LegalActions[idx], nil
}

// ChooseCounteraction implements game.Strategy.
func (s *Interactive) ChooseCounteraction(view game.GameView, player string) (*game.Action, error) {
	if len(view.LegalActions) == 0 {
		return nil, nil
	}
	prompt := fmt.Sprintf("%s, respond?", player)
	if top, ok := view.StackTop(); ok {
		prompt = fmt.Sprintf("%s, respond to %s's %s?", player, top.User, top.Name)
	}
	options := append([]string{passOption}, describeActions(view.LegalActions)...)
	idx, err := s.pick(prompt, options)
	if err != nil || idx == 0 {
		return nil, err
	}
	a := view.LegalActions[idx-1]
	return &a, nil
}

// ChooseInfluenceToLose implements game.Strategy.
func (s *Interactive) ChooseInfluenceToLose(view game.GameView, player string) (game.Influence, error) {
	me, err := self(view)
	if err != nil {
		return game.NoInfluence, err
	}
	if len(me.Hidden) == 0 {
		return game.NoInfluence, ErrNoLegalAction
	}
	idx, err := s.pick(fmt.Sprintf("%s, choose an influence to reveal", player), describeInfluences(me.Hidden))
	if err != nil {
		return game.NoInfluence, err
	}
	return me.Hidden[idx], nil
}

// ChooseExchange implements game.Strategy. The player picks the cards to keep
// one at a time; whatever is left goes back to the deck.
func (s *Interactive) ChooseExchange(view game.GameView, drawn []game.Influence) ([]game.Influence, []game.Influence, error) {
	me, err := self(view)
	if err != nil {
		return nil, nil, err
	}
	pool := append(slices.Clone(me.Hidden), drawn...)
	keep := make([]game.Influence, 0, len(me.Hidden))
	for len(keep) < len(me.Hidden) {
		prompt := fmt.Sprintf("%s, keep card %d of %d", view.Viewer, len(keep)+1, len(me.Hidden))
		idx, err := s.pick(prompt, describeInfluences(pool))
		if err != nil {
			return nil, nil, err
		}
		keep = append(keep, pool[idx])
		pool = slices.Delete(pool, idx, idx+1)
	}
	return keep, pool, nil
}

func describeActions(actions []game.Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		label := a.Kind.String()
		if a.Target != "" {
			label = fmt.Sprintf("%s -> %s", label, a.Target)
		}
		if v := a.Variant(); v.Requirement != game.NoInfluence {
			label = fmt.Sprintf("%s (claims %s)", label, v.Requirement)
		}
		out = append(out, label)
	}
	return out
}

func describeInfluences(cards []game.Influence) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

// TerminalPrompter asks through pterm's interactive select.
type TerminalPrompter struct{}

// Select implements Prompter. Options need not be unique.
func (TerminalPrompter) Select(prompt string, options []string) (int, error) {
	labels := make([]string, len(options))
	for i, opt := range options {
		labels[i] = fmt.Sprintf("%d. %s", i+1, opt)
	}
	choice, err := pterm.DefaultInteractiveSelect.
		WithDefaultText(prompt).
		WithOptions(labels).
		Show()
	if err != nil {
		return 0, err
	}
	idx := slices.Index(labels, choice)
	if idx < 0 {
		return 0, fmt.Errorf("unexpected selection %q", choice)
	}
	return idx, nil
}
