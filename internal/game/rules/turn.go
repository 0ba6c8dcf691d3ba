package rules

import (
	"fmt"
	"strings"
)

// Phase represents the states a single turn moves through.
type Phase int

const (
	PhaseAwaitPrimaryAction Phase = iota
	PhaseAwaitFirstCounteraction
	PhaseAwaitSecondCounteraction
	PhaseResolve
	PhaseDone
)

var phaseNames = map[Phase]string{
	PhaseAwaitPrimaryAction:       "AWAIT_PRIMARY_ACTION",
	PhaseAwaitFirstCounteraction:  "AWAIT_FIRST_COUNTERACTION",
	PhaseAwaitSecondCounteraction: "AWAIT_SECOND_COUNTERACTION",
	PhaseResolve:                  "RESOLVE",
	PhaseDone:                     "DONE",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// TurnOrder tracks the rotation of seats that still take turns.
// The player at the front of the rotation is the active player.
type TurnOrder struct {
	rotation   []string
	turnNumber int
	phase      Phase
}

// NewTurnOrder creates a rotation in the given seat order, starting at turn 1.
func NewTurnOrder(seats []string) *TurnOrder {
	rotation := make([]string, 0, len(seats))
	for _, seat := range seats {
		rotation = append(rotation, strings.TrimSpace(seat))
	}
	return &TurnOrder{
		rotation:   rotation,
		turnNumber: 1,
		phase:      PhaseAwaitPrimaryAction,
	}
}

// ActivePlayer returns the player who currently has the turn, or "" once the
// rotation is empty.
func (to *TurnOrder) ActivePlayer() string {
	if len(to.rotation) == 0 {
		return ""
	}
	return to.rotation[0]
}

// TurnNumber returns the current turn number (1-based).
func (to *TurnOrder) TurnNumber() int {
	return to.turnNumber
}

// Phase returns the phase of the current turn.
func (to *TurnOrder) Phase() Phase {
	return to.phase
}

// SetPhase moves the current turn to phase p.
func (to *TurnOrder) SetPhase(p Phase) {
	to.phase = p
}

// Rotation returns a copy of the seats still in rotation, active first.
func (to *TurnOrder) Rotation() []string {
	cpy := make([]string, len(to.rotation))
	copy(cpy, to.rotation)
	return cpy
}

// Len returns the number of seats still in rotation.
func (to *TurnOrder) Len() int {
	return len(to.rotation)
}

// Contains reports whether seat is still in rotation.
func (to *TurnOrder) Contains(seat string) bool {
	for _, s := range to.rotation {
		if s == seat {
			return true
		}
	}
	return false
}

// Advance moves the active seat to the back of the rotation and then drops
// every seat for which alive returns false. The phase resets for the new turn.
func (to *TurnOrder) Advance(alive func(seat string) bool) string {
	if len(to.rotation) > 0 {
		to.rotation = append(to.rotation[1:], to.rotation[0])
	}
	kept := to.rotation[:0]
	for _, seat := range to.rotation {
		if alive == nil || alive(seat) {
			kept = append(kept, seat)
		}
	}
	to.rotation = kept
	to.turnNumber++
	to.phase = PhaseAwaitPrimaryAction
	return to.ActivePlayer()
}
