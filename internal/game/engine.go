package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/coup-engine-go/internal/game/rules"
)

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger. A nil logger is replaced by a no-op one.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRand sets the randomness source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithCounterPolicy replaces the default FirstOfferWins policy.
func WithCounterPolicy(policy CounterPolicy) Option {
	return func(g *Game) {
		if policy != nil {
			g.policy = policy
		}
	}
}

// WithMaxTurns makes Play fail with ErrTurnLimit after n turns. Zero means
// no limit.
func WithMaxTurns(n int) Option {
	return func(g *Game) {
		g.maxTurns = n
	}
}

// WithRecorder records a public snapshot after every turn.
func WithRecorder(recorder *ReplayRecorder) Option {
	return func(g *Game) {
		g.recorder = recorder
	}
}

// WithEventBus publishes game events on bus instead of a private one.
func WithEventBus(bus *rules.EventBus) Option {
	return func(g *Game) {
		if bus != nil {
			g.bus = bus
		}
	}
}

// Game drives turns over a GameState.
type Game struct {
	state    *GameState
	rng      *rand.Rand
	policy   CounterPolicy
	maxTurns int
	recorder *ReplayRecorder
	bus      *rules.EventBus
	logger   *zap.Logger
}

// NewGame seats players and deals the opening hands.
func NewGame(players []*Player, opts ...Option) (*Game, error) {
	if err := validatePlayers(players); err != nil {
		return nil, err
	}
	g := &Game{
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		policy: FirstOfferWins{},
		bus:    rules.NewEventBus(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.state = newGameState(slices.Clone(players), g.rng, g.bus, g.logger)
	if err := g.start(); err != nil {
		return nil, err
	}
	return g, nil
}

func validatePlayers(players []*Player) error {
	if len(players) < 2 {
		return fmt.Errorf("need at least 2 players, got %d: %w", len(players), ErrInvalidPlayers)
	}
	if len(players)*StartingInfluences > DeckSize {
		return fmt.Errorf("%d players cannot be dealt from %d cards: %w", len(players), DeckSize, ErrInvalidPlayers)
	}
	seen := make(map[string]bool, len(players))
	for i, p := range players {
		if p == nil {
			return fmt.Errorf("player %d is nil: %w", i, ErrInvalidPlayers)
		}
		if p.Name() == "" {
			return fmt.Errorf("player %d has no name: %w", i, ErrInvalidPlayers)
		}
		if p.Strategy() == nil {
			return fmt.Errorf("player %s has no strategy: %w", p.Name(), ErrInvalidPlayers)
		}
		if seen[p.Name()] {
			return fmt.Errorf("duplicate player %s: %w", p.Name(), ErrInvalidPlayers)
		}
		seen[p.Name()] = true
	}
	return nil
}

func (g *Game) start() error {
	if err := g.state.reset(); err != nil {
		return err
	}
	if g.recorder != nil {
		g.recorder.StartRecording(g.state.id)
		g.recorder.RecordState(g.state.id, g.state.Snapshot(""))
	}
	g.logger.Info("game started",
		zap.String("game_id", g.state.id),
		zap.Strings("players", g.state.TurnOrder()),
	)
	g.state.publish(rules.NewEventWithAmount(rules.EventGameStarted, "", "", "", len(g.state.players)))
	return nil
}

// Reset deals a new game to the same players.
func (g *Game) Reset() error {
	if g.recorder != nil && g.state.id != "" {
		g.recorder.StopRecording(g.state.id)
	}
	return g.start()
}

// ID returns the current game id.
func (g *Game) ID() string { return g.state.id }

// State exposes the underlying game state.
func (g *Game) State() *GameState { return g.state }

// EventBus returns the bus game events are published on.
func (g *Game) EventBus() *rules.EventBus { return g.bus }

// Snapshot returns the view of the table from viewer's seat.
func (g *Game) Snapshot(viewer string) GameView { return g.state.Snapshot(viewer) }

// IsOver reports whether the game has a result.
func (g *Game) IsOver() bool { return g.state.IsOver() }

// Winner returns the last player standing, or nil while the game runs.
func (g *Game) Winner() *Player { return g.state.Winner() }

// KnockedOut returns eliminated players, first out first.
func (g *Game) KnockedOut() []string { return g.state.KnockedOut() }

// Play runs turns until the game is over and returns the winner.
func (g *Game) Play() (*Player, error) {
	for !g.state.IsOver() {
		if g.maxTurns > 0 && g.state.TurnNumber() > g.maxTurns {
			return nil, fmt.Errorf("game %s after %d turns: %w", g.state.id, g.maxTurns, ErrTurnLimit)
		}
		if err := g.PlayTurn(); err != nil {
			return nil, err
		}
	}
	return g.state.Winner(), nil
}

// PlayTurn runs one full turn: primary action, up to two response windows,
// resolution and rotation.
func (g *Game) PlayTurn() error {
	gs := g.state
	if gs.IsOver() {
		return ErrGameOver
	}
	active := gs.ActivePlayer()
	gs.order.SetPhase(rules.PhaseAwaitPrimaryAction)
	gs.publish(rules.NewEventWithAmount(rules.EventTurnStarted, active.Name(), "", "", gs.TurnNumber()))

	action, err := active.Strategy().ChooseAction(gs.Snapshot(active.Name()))
	if err != nil {
		return fmt.Errorf("%s choosing action: %w", active.Name(), err)
	}
	if action.User == "" {
		action.User = active.Name()
	}
	forfeited, err := g.declare(active, &action)
	if err != nil {
		return err
	}
	if !forfeited {
		if err := g.respond(&action); err != nil {
			return err
		}
		gs.order.SetPhase(rules.PhaseResolve)
		if err := gs.ResolveStack(); err != nil {
			return err
		}
	}
	return g.endTurn()
}

// declare validates, charges and stacks the primary action. A cost that
// cannot be paid disqualifies the player and forfeits the turn.
func (g *Game) declare(active *Player, action *Action) (bool, error) {
	gs := g.state
	normalize(action)
	if res := gs.CheckLegality(*action); !res.Legal {
		return false, &IllegalActionError{Action: *action, Result: res}
	}
	if forfeited, err := g.charge(active, action); forfeited || err != nil {
		return forfeited, err
	}
	gs.push(action)
	declared := rules.NewEvent(rules.EventActionDeclared, action.User, action.Target, action.ID)
	declared.Data = action.Kind.String()
	gs.publish(declared)
	return false, nil
}

func (g *Game) charge(p *Player, action *Action) (bool, error) {
	gs := g.state
	cost := action.Variant().Cost
	if cost == 0 {
		return false, nil
	}
	if err := p.Pay(cost); err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			gs.disqualify(p, action.ID)
			return true, nil
		}
		return false, err
	}
	gs.publish(rules.NewEventWithAmount(rules.EventCostPaid, p.Name(), "", action.ID, cost))
	return false, nil
}

// respond runs the two counteraction windows.
func (g *Game) respond(primary *Action) error {
	gs := g.state
	gs.order.SetPhase(rules.PhaseAwaitFirstCounteraction)
	first, err := g.collect(primary.User)
	if err != nil || first == nil {
		return err
	}
	gs.order.SetPhase(rules.PhaseAwaitSecondCounteraction)
	_, err = g.collect(first.User)
	return err
}

// collect polls every living player in rotation except exclude and stacks the
// accepted counteraction, if any.
func (g *Game) collect(exclude string) (*Action, error) {
	gs := g.state
	var candidates []*Player
	for _, name := range gs.order.Rotation() {
		if p := gs.Player(name); name != exclude && p != nil && p.IsAlive() {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	responder, offer, err := g.policy.Collect(gs, candidates)
	if err != nil || offer == nil {
		return nil, err
	}
	normalize(offer)
	if responder == nil || !slices.Contains(candidates, responder) {
		return nil, &IllegalActionError{
			Action: *offer,
			Result: rules.Illegal("Player was not polled", "player", offer.User),
		}
	}
	if offer.User != responder.Name() {
		return nil, &IllegalActionError{
			Action: *offer,
			Result: rules.Illegal("Player was not polled", "player", offer.User, "responder", responder.Name()),
		}
	}
	if !offer.Variant().IsCounteraction() {
		return nil, &IllegalActionError{
			Action: *offer,
			Result: rules.Illegal("Not a counteraction", "kind", offer.Kind.String()),
		}
	}
	if res := gs.CheckLegality(*offer); !res.Legal {
		return nil, &IllegalActionError{Action: *offer, Result: res}
	}
	gs.push(offer)
	declared := rules.NewEvent(rules.EventCounteractionDeclared, offer.User, offer.Target, offer.ID)
	declared.Data = offer.Kind.String()
	gs.publish(declared)
	return offer, nil
}

func (g *Game) endTurn() error {
	gs := g.state
	gs.order.SetPhase(rules.PhaseDone)
	previous, turn := gs.order.ActivePlayer(), gs.TurnNumber()

	gs.order.Advance(func(name string) bool {
		p := gs.Player(name)
		return p != nil && p.IsAlive()
	})
	if err := gs.CheckInvariants(); err != nil {
		return err
	}
	gs.publish(rules.NewEventWithAmount(rules.EventTurnEnded, previous, "", "", turn))
	if g.recorder != nil {
		g.recorder.RecordState(gs.id, gs.Snapshot(""))
	}
	if gs.IsOver() {
		winner := ""
		if w := gs.Winner(); w != nil {
			winner = w.Name()
		}
		g.logger.Info("game over",
			zap.String("game_id", gs.id),
			zap.String("winner", winner),
			zap.Int("turns", gs.TurnNumber()-1),
		)
		gs.publish(rules.NewEvent(rules.EventGameOver, winner, "", ""))
		if g.recorder != nil {
			g.recorder.StopRecording(gs.id)
		}
	}
	return nil
}

func normalize(a *Action) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.Succeeds = true
}
