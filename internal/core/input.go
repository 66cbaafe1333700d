package core

// Action is a semantic input, abstracted from physical keys.
type Action uint16

const ActionNone Action = 0

const (
	ActionUp Action = 1 << iota
	ActionDown
	ActionLeft
	ActionRight
	ActionUndo
	ActionRedo
	ActionRestart
	ActionPause
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionUndo:    "Undo",
	ActionRedo:    "Redo",
	ActionRestart: "Restart",
	ActionPause:   "Pause",
	ActionQuit:    "Quit",
}

// String returns a human-readable name for a single action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame is the set of actions triggered during one tick.
type InputFrame struct {
	actions Action
}

// NewInputFrame returns a frame with the given actions set.
func NewInputFrame(actions ...Action) InputFrame {
	var f InputFrame
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks an action as triggered.
func (f *InputFrame) Set(a Action) {
	f.actions |= a
}

// Has reports whether the action was triggered.
func (f InputFrame) Has(a Action) bool {
	return a != ActionNone && f.actions&a == a
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return f.actions == ActionNone
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	f.actions = ActionNone
}
