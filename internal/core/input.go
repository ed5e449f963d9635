package core

import "time"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - move paddle left (held)
	ActionRight          // D, Right arrow - move paddle right (held)
	ActionFire           // Space, mouse click - serve stuck balls
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state during one simulation tick.
// It contains all actions that were triggered during this frame, the
// frame timestamp and an optional pointer column.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	// At is the host timestamp of this frame. Zero means the game should
	// advance by its nominal fixed step.
	At time.Time

	// PointerX is the screen column of the pointer when HasPointer is set.
	PointerX   int
	HasPointer bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Point records the pointer column for this frame.
func (f *InputFrame) Point(x int) {
	f.PointerX = x
	f.HasPointer = true
}

// Clear resets all actions and the pointer for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
	f.At = time.Time{}
	f.HasPointer = false
	f.PointerX = 0
}

// RunSummary describes a finished or abandoned run, handed to whoever
// records scores.
type RunSummary struct {
	GameKey string
	Score   int
	Level   int
	Reason  EndReason
}

// EndReason tells why a run ended.
type EndReason int

const (
	EndGameOver EndReason = iota // lives ran out
	EndQuit                      // the player left mid-run
)

// String returns a human-readable name for the reason.
func (r EndReason) String() string {
	switch r {
	case EndGameOver:
		return "game_over"
	case EndQuit:
		return "quit"
	default:
		return "unknown"
	}
}
