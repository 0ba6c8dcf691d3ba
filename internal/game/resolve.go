package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

func gainCoins(n int) func(*GameState, *Action) error {
	return func(gs *GameState, a *Action) error {
		user := gs.Player(a.User)
		user.Gain(n)
		gs.publish(rules.NewEventWithAmount(rules.EventCoinsGained, user.Name(), "", a.ID, n))
		return nil
	}
}

func targetLosesInfluence(gs *GameState, a *Action) error {
	return gs.loseInfluence(gs.Player(a.Target), a)
}

func steal(gs *GameState, a *Action) error {
	user, target := gs.Player(a.User), gs.Player(a.Target)
	taken := target.Take(StealAmount)
	user.Gain(taken)
	gs.publish(rules.NewEventWithAmount(rules.EventCoinsLost, target.Name(), user.Name(), a.ID, taken))
	gs.publish(rules.NewEventWithAmount(rules.EventCoinsGained, user.Name(), target.Name(), a.ID, taken))
	return nil
}

func exchange(gs *GameState, a *Action) error {
	user := gs.Player(a.User)
	if !user.IsAlive() {
		return nil
	}
	drawn, err := gs.deck.DrawN(ExchangeDraw)
	if err != nil {
		return err
	}
	hidden := user.Hidden()
	keep, ret, err := user.Strategy().ChooseExchange(gs.Snapshot(user.Name()), drawn)
	if err != nil {
		gs.deck.Return(drawn...)
		return fmt.Errorf("%s choosing exchange: %w", user.Name(), err)
	}
	if err := validateExchange(hidden, drawn, keep, ret); err != nil {
		gs.deck.Return(drawn...)
		return fmt.Errorf("%s: %w", user.Name(), err)
	}
	user.setHidden(keep)
	gs.deck.Return(ret...)
	gs.publish(rules.NewEventWithAmount(rules.EventCardsExchanged, user.Name(), "", a.ID, len(ret)))
	return nil
}

// validateExchange enforces that keep has the pre-exchange hand size and that
// keep+ret is exactly hidden+drawn.
func validateExchange(hidden, drawn, keep, ret []Influence) error {
	if len(keep) != len(hidden) {
		return fmt.Errorf("keeping %d cards, must keep %d: %w", len(keep), len(hidden), ErrInvalidExchange)
	}
	if !sameMultiset(countInfluences(keep, ret), countInfluences(hidden, drawn)) {
		return fmt.Errorf("kept %v and returned %v from %v+%v: %w", keep, ret, hidden, drawn, ErrInvalidExchange)
	}
	return nil
}

// nullifyContested marks the action beneath a resolving block as failed. It
// stays on the stack and is skipped when popped.
func nullifyContested(gs *GameState, a *Action) error {
	contested, ok := gs.stack.Peek()
	if !ok {
		return fmt.Errorf("%s resolved with nothing to block: %w", a, ErrInvariantViolated)
	}
	contested.Succeeds = false
	gs.publish(rules.NewEvent(rules.EventStackItemNullified, contested.User, a.User, a.ID))
	return nil
}

// resolveChallenge settles a dispute over the claim directly beneath it.
func resolveChallenge(gs *GameState, a *Action) error {
	contested, ok := gs.stack.Peek()
	if !ok {
		return fmt.Errorf("%s resolved with nothing to challenge: %w", a, ErrInvariantViolated)
	}
	requirement := contested.Variant().Requirement
	claimant, challenger := gs.Player(contested.User), gs.Player(a.User)

	if claimant.Holds(requirement) {
		evt := rules.NewEvent(rules.EventChallengeLost, challenger.Name(), claimant.Name(), a.ID)
		evt.Data = requirement.String()
		gs.publish(evt)
		if err := gs.loseInfluence(challenger, a); err != nil {
			return err
		}
		if _, err := claimant.ReplaceInfluence(gs.deck, requirement); err != nil {
			return fmt.Errorf("replacing %s for %s: %w", requirement, claimant.Name(), err)
		}
		replaced := rules.NewEvent(rules.EventInfluenceReplaced, claimant.Name(), "", a.ID)
		replaced.Data = requirement.String()
		gs.publish(replaced)
		return nil
	}

	contested.Succeeds = false
	evt := rules.NewEvent(rules.EventChallengeWon, challenger.Name(), claimant.Name(), a.ID)
	evt.Data = requirement.String()
	gs.publish(evt)
	gs.publish(rules.NewEvent(rules.EventStackItemNullified, claimant.Name(), challenger.Name(), a.ID))
	return gs.loseInfluence(claimant, a)
}

// loseInfluence asks the player's strategy which card to reveal when there is
// a choice. Eliminated players are left untouched.
func (gs *GameState) loseInfluence(p *Player, source *Action) error {
	if !p.IsAlive() {
		return nil
	}
	choice := p.hidden[0]
	if p.InfluenceCount() > 1 {
		var err error
		choice, err = p.Strategy().ChooseInfluenceToLose(gs.Snapshot(p.Name()), p.Name())
		if err != nil {
			return fmt.Errorf("%s choosing influence to lose: %w", p.Name(), err)
		}
	}
	if err := p.LoseInfluence(choice); err != nil {
		return err
	}

	evt := rules.NewEvent(rules.EventInfluenceLost, p.Name(), "", source.ID)
	evt.Data = choice.String()
	gs.publish(evt)
	if !p.IsAlive() {
		gs.logger.Info("player eliminated",
			zap.String("game_id", gs.id),
			zap.String("player", p.Name()),
		)
		gs.eliminated(p, source.ID)
	}
	return nil
}
