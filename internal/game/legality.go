package game

import (
	"strconv"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

// CheckLegality evaluates the action's predicate against the current state.
func (gs *GameState) CheckLegality(a Action) rules.LegalityResult {
	v, ok := LookupVariant(a.Kind)
	if !ok {
		return rules.Illegal("Unknown action", "kind", a.Kind.String())
	}
	return v.legal(gs, &a)
}

// LegalActions enumerates every legal action for the named player at the
// current decision point, expanding targeted variants over each opponent.
func (gs *GameState) LegalActions(name string) []Action {
	user := gs.Player(name)
	if user == nil || !user.IsAlive() {
		return nil
	}
	var out []Action
	for _, kind := range catalogKeys {
		v := catalog[kind]
		if !v.HasTarget {
			a := Action{Kind: kind, User: name, Succeeds: true}
			if gs.CheckLegality(a).Legal {
				out = append(out, a)
			}
			continue
		}
		for _, p := range gs.players {
			a := Action{Kind: kind, User: name, Target: p.Name(), Succeeds: true}
			if gs.CheckLegality(a).Legal {
				out = append(out, a)
			}
		}
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }

func knownAlive(gs *GameState, name string) rules.Check {
	return func() rules.LegalityResult {
		p := gs.Player(name)
		if p == nil {
			return rules.Illegal("Unknown player", "player", name)
		}
		if !p.IsAlive() {
			return rules.Illegal("Player is eliminated", "player", name)
		}
		return rules.Legal()
	}
}

func primaryLegal(gs *GameState, a *Action) rules.LegalityResult {
	v := a.Variant()
	checks := []rules.Check{
		knownAlive(gs, a.User),
		func() rules.LegalityResult {
			if active := gs.order.ActivePlayer(); active != a.User {
				return rules.Illegal("Not the active player", "player", a.User, "active", active)
			}
			return rules.Legal()
		},
		func() rules.LegalityResult {
			if !gs.stack.IsEmpty() {
				return rules.Illegal("An action is already pending", "pending", itoa(gs.stack.Len()))
			}
			return rules.Legal()
		},
		func() rules.LegalityResult {
			coins := gs.Player(a.User).Coins()
			if v.Kind != ActionCoup && coins >= ForcedCoupThreshold {
				return rules.Illegal("Must coup", "have", itoa(coins))
			}
			if coins < v.Cost {
				return rules.Illegal("Not enough coins", "cost", itoa(v.Cost), "have", itoa(coins))
			}
			return rules.Legal()
		},
	}
	if v.HasTarget {
		checks = append(checks, targetLegal(gs, a))
	} else {
		checks = append(checks, noTarget(a))
	}
	return rules.All(checks...)
}

func targetLegal(gs *GameState, a *Action) rules.Check {
	return func() rules.LegalityResult {
		if a.Target == "" {
			return rules.Illegal("Target required")
		}
		if a.Target == a.User {
			return rules.Illegal("Cannot target yourself", "target", a.Target)
		}
		if res := knownAlive(gs, a.Target)(); !res.Legal {
			return res
		}
		if a.Kind == ActionSteal && gs.Player(a.Target).Coins() == 0 {
			return rules.Illegal("Target has no coins", "target", a.Target)
		}
		return rules.Legal()
	}
}

func noTarget(a *Action) rules.Check {
	return func() rules.LegalityResult {
		if a.Target != "" {
			return rules.Illegal("Action takes no target", "target", a.Target)
		}
		return rules.Legal()
	}
}

// notActive covers both counteractions and challenges.
func notActive(gs *GameState, a *Action) rules.Check {
	return func() rules.LegalityResult {
		if gs.order.ActivePlayer() == a.User {
			return rules.Illegal("Active player cannot respond", "player", a.User)
		}
		return rules.Legal()
	}
}

func pendingTop(gs *GameState) rules.Check {
	return func() rules.LegalityResult {
		if gs.stack.IsEmpty() {
			return rules.Illegal("Nothing to respond to")
		}
		return rules.Legal()
	}
}

func blockLegal(contested ActionKind, mustBeTarget bool) func(*GameState, *Action) rules.LegalityResult {
	return func(gs *GameState, a *Action) rules.LegalityResult {
		return rules.All(
			knownAlive(gs, a.User),
			notActive(gs, a),
			noTarget(a),
			pendingTop(gs),
			func() rules.LegalityResult {
				top, _ := gs.stack.Peek()
				if !top.Variant().Blockable {
					return rules.Illegal("Pending action cannot be blocked", "pending", top.Kind.String())
				}
				if top.Kind != contested {
					return rules.Illegal("Pending action cannot be blocked this way",
						"pending", top.Kind.String(), "blocks", contested.String())
				}
				if mustBeTarget && top.Target != a.User {
					return rules.Illegal("Only the target may block", "target", top.Target)
				}
				return rules.Legal()
			},
		)
	}
}

func challengeLegal(gs *GameState, a *Action) rules.LegalityResult {
	return rules.All(
		knownAlive(gs, a.User),
		notActive(gs, a),
		noTarget(a),
		pendingTop(gs),
		func() rules.LegalityResult {
			top, _ := gs.stack.Peek()
			if !top.Variant().Challengeable {
				return rules.Illegal("Pending action cannot be challenged", "pending", top.Kind.String())
			}
			if top.User == a.User {
				return rules.Illegal("Cannot challenge your own claim", "player", a.User)
			}
			return rules.Legal()
		},
	)
}
