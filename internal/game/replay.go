package game

import (
	"sync"

	"go.uber.org/zap"
)

// Replay is the recorded sequence of public snapshots of one game, one per
// turn boundary.
type Replay struct {
	GameID       string
	States       []GameView
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(gameID string) *Replay {
	return &Replay{
		GameID: gameID,
		States: make([]GameView, 0),
	}
}

// RecordState appends a snapshot.
func (r *Replay) RecordState(view GameView) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.States = append(r.States, view)
}

// Start rewinds to the first snapshot.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the snapshot at the cursor and advances it.
func (r *Replay) Next() (GameView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.States) {
		view := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return view, true
	}
	return GameView{}, false
}

// Previous steps the cursor back and returns that snapshot.
func (r *Replay) Previous() (GameView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex], true
	}
	return GameView{}, false
}

// Skip moves the cursor by count, clamped to the recorded range.
func (r *Replay) Skip(count int) (GameView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.States) == 0 {
		return GameView{}, false
	}
	r.CurrentIndex = max(0, min(r.CurrentIndex+count, len(r.States)-1))
	return r.States[r.CurrentIndex], true
}

// Size returns the number of recorded snapshots.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.States)
}

// GetStateAt returns the snapshot at index.
func (r *Replay) GetStateAt(index int) (GameView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.States) {
		return r.States[index], true
	}
	return GameView{}, false
}

// Checksums returns the checksum of every recorded snapshot in order.
func (r *Replay) Checksums() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.States))
	for _, view := range r.States {
		out = append(out, view.Checksum())
	}
	return out
}

// ReplayRecorder keeps replays for every game played through it, in memory.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
}

// NewReplayRecorder creates a recorder. A nil logger disables logging.
func NewReplayRecorder(logger *zap.Logger) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
	}
}

// StartRecording begins recording gameID.
func (rr *ReplayRecorder) StartRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[gameID] = NewReplay(gameID)
	rr.enabled[gameID] = true

	rr.logger.Debug("started replay recording", zap.String("game_id", gameID))
}

// StopRecording stops recording gameID; the replay is kept.
func (rr *ReplayRecorder) StopRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.enabled[gameID] = false

	rr.logger.Debug("stopped replay recording", zap.String("game_id", gameID))
}

// RecordState records a snapshot if gameID is being recorded.
func (rr *ReplayRecorder) RecordState(gameID string, view GameView) {
	rr.mu.RLock()
	enabled := rr.enabled[gameID]
	replay := rr.replays[gameID]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}
	replay.RecordState(view)

	rr.logger.Debug("recorded replay state",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Size()),
	)
}

// GetReplay returns the replay for gameID.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, exists := rr.replays[gameID]
	return replay, exists
}

// ClearReplay drops the replay for gameID.
func (rr *ReplayRecorder) ClearReplay(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, gameID)
	delete(rr.enabled, gameID)
}

// IsRecording reports whether gameID is being recorded.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return rr.enabled[gameID]
}
