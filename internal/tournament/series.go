// Package tournament plays a series of games on one table and keeps standings.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/coup-engine-go/internal/game"
)

// SeriesState represents the state of a series
type SeriesState int

const (
	SeriesStateWaiting SeriesState = iota
	SeriesStateInProgress
	SeriesStateFinished
	SeriesStateAborted
)

func (s SeriesState) String() string {
	switch s {
	case SeriesStateWaiting:
		return "WAITING"
	case SeriesStateInProgress:
		return "IN_PROGRESS"
	case SeriesStateFinished:
		return "FINISHED"
	case SeriesStateAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// Standing is one player's record across the series.
type Standing struct {
	Name   string
	Wins   int
	Points int
	// Placements[i] counts finishes in place i+1.
	Placements []int
}

// Round is the outcome of one game.
type Round struct {
	Number    int
	GameID    string
	Winner    string
	Turns     int
	Abandoned bool
	// KnockedOut lists eliminated players, first out first.
	KnockedOut []string
}

// SeriesSnapshot captures a consistent view of a series.
type SeriesSnapshot struct {
	ID        string
	State     SeriesState
	NumRounds int
	Standings []Standing
	Rounds    []Round
	StartTime *time.Time
	EndTime   *time.Time
}

// Series plays NumRounds games with the same seats. Each placement scores
// points equal to the number of players beaten.
type Series struct {
	ID        string
	NumRounds int

	// OnRoundStart and OnRoundEnd are optional hooks run on the caller's
	// goroutine.
	OnRoundStart func(number int, gameID string)
	OnRoundEnd   func(Round)

	mu        sync.RWMutex
	state     SeriesState
	order     []string
	standings map[string]*Standing
	rounds    []Round
	startTime *time.Time
	endTime   *time.Time
	logger    *zap.Logger
}

// NewSeries creates a series of numRounds games.
func NewSeries(numRounds int, logger *zap.Logger) *Series {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Series{
		ID:        uuid.New().String(),
		NumRounds: numRounds,
		standings: make(map[string]*Standing),
		logger:    logger,
	}
}

// Run plays every round on g. Games that hit the turn limit are recorded as
// abandoned; any other error aborts the series.
func (s *Series) Run(ctx context.Context, g *game.Game) error {
	if err := s.start(g); err != nil {
		return err
	}

	for n := 1; n <= s.NumRounds; n++ {
		if err := ctx.Err(); err != nil {
			s.finish(SeriesStateAborted)
			return err
		}
		if n > 1 {
			if err := g.Reset(); err != nil {
				s.finish(SeriesStateAborted)
				return err
			}
		}
		if s.OnRoundStart != nil {
			s.OnRoundStart(n, g.ID())
		}

		winner, err := g.Play()
		abandoned := errors.Is(err, game.ErrTurnLimit)
		if err != nil && !abandoned {
			s.finish(SeriesStateAborted)
			return fmt.Errorf("round %d: %w", n, err)
		}

		round := s.record(n, g, winner, abandoned)
		if s.OnRoundEnd != nil {
			s.OnRoundEnd(round)
		}
	}

	s.finish(SeriesStateFinished)
	return nil
}

func (s *Series) start(g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SeriesStateWaiting {
		return fmt.Errorf("series already started")
	}
	if s.NumRounds < 1 {
		return fmt.Errorf("series needs at least one round")
	}
	for _, p := range g.State().Players() {
		s.order = append(s.order, p.Name())
		s.standings[p.Name()] = &Standing{
			Name:       p.Name(),
			Placements: make([]int, len(g.State().Players())),
		}
	}
	now := time.Now()
	s.startTime = &now
	s.state = SeriesStateInProgress

	s.logger.Info("series started",
		zap.String("series_id", s.ID),
		zap.Int("rounds", s.NumRounds),
		zap.Strings("players", s.order),
	)
	return nil
}

// record tallies a finished game. Survivors share the best places in seat
// order; eliminated players are placed in reverse order of elimination.
func (s *Series) record(n int, g *game.Game, winner *game.Player, abandoned bool) Round {
	s.mu.Lock()
	defer s.mu.Unlock()

	round := Round{
		Number:     n,
		GameID:     g.ID(),
		Turns:      g.State().TurnNumber() - 1,
		Abandoned:  abandoned,
		KnockedOut: g.KnockedOut(),
	}
	if winner != nil {
		round.Winner = winner.Name()
	}

	if !abandoned {
		finish := append([]string{}, g.State().TurnOrder()...)
		for i := len(round.KnockedOut) - 1; i >= 0; i-- {
			finish = append(finish, round.KnockedOut[i])
		}
		total := len(finish)
		for place, name := range finish {
			st := s.standings[name]
			if st == nil {
				continue
			}
			st.Placements[place]++
			st.Points += total - 1 - place
		}
		if st := s.standings[round.Winner]; st != nil {
			st.Wins++
		}
	}

	s.rounds = append(s.rounds, round)
	s.logger.Info("round recorded",
		zap.String("series_id", s.ID),
		zap.Int("round", n),
		zap.String("game_id", round.GameID),
		zap.String("winner", round.Winner),
		zap.Bool("abandoned", abandoned),
	)
	return round
}

func (s *Series) finish(state SeriesState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.endTime = &now
	s.state = state
}

// State returns the series state.
func (s *Series) State() SeriesState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns a consistent copy of the series.
func (s *Series) Snapshot() SeriesSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	standings := make([]Standing, 0, len(s.order))
	for _, name := range s.order {
		st := s.standings[name]
		standings = append(standings, Standing{
			Name:       st.Name,
			Wins:       st.Wins,
			Points:     st.Points,
			Placements: append([]int(nil), st.Placements...),
		})
	}
	rounds := make([]Round, 0, len(s.rounds))
	for _, r := range s.rounds {
		r.KnockedOut = append([]string(nil), r.KnockedOut...)
		rounds = append(rounds, r)
	}

	return SeriesSnapshot{
		ID:        s.ID,
		State:     s.state,
		NumRounds: s.NumRounds,
		Standings: standings,
		Rounds:    rounds,
		StartTime: cloneTime(s.startTime),
		EndTime:   cloneTime(s.endTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
