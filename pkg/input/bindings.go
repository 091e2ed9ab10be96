package input

import "github.com/veandco/go-sdl2/sdl"

// Action is a player command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionToggleLoop
	ActionRestart
	ActionCycleFit
	ActionToggleCursor
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionTogglePause:
		return "toggle-pause"
	case ActionToggleLoop:
		return "toggle-loop"
	case ActionRestart:
		return "restart"
	case ActionCycleFit:
		return "cycle-fit"
	case ActionToggleCursor:
		return "toggle-cursor"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Binding maps a scancode to an action.
type Binding struct {
	Key    sdl.Scancode
	Action Action
}

// DefaultBindings are the player's keyboard shortcuts, checked in order.
var DefaultBindings = []Binding{
	{sdl.SCANCODE_SPACE, ActionTogglePause},
	{sdl.SCANCODE_L, ActionToggleLoop},
	{sdl.SCANCODE_R, ActionRestart},
	{sdl.SCANCODE_F, ActionCycleFit},
	{sdl.SCANCODE_H, ActionToggleCursor},
	{sdl.SCANCODE_ESCAPE, ActionQuit},
}

// edges remembers which inputs were down at the previous poll, so an input
// held across polls fires once.
type edges[K comparable] map[K]bool

// rose records the current state of k and reports a press.
func (e edges[K]) rose(k K, down bool) bool {
	was := e[k]
	e[k] = down
	return down && !was
}

// Keymap turns polled keyboard state into edge-triggered actions.
type Keymap struct {
	bindings []Binding
	keys     edges[sdl.Scancode]
}

// NewKeymap creates a keymap over bindings.
func NewKeymap(bindings []Binding) *Keymap {
	return &Keymap{bindings: bindings, keys: edges[sdl.Scancode]{}}
}

// Poll returns the actions whose keys went down since the previous poll.
// Scancodes past the end of keyState count as released.
func (k *Keymap) Poll(keyState []uint8) []Action {
	var actions []Action
	for _, b := range k.bindings {
		down := int(b.Key) < len(keyState) && keyState[b.Key] != 0
		if k.keys.rose(b.Key, down) {
			actions = append(actions, b.Action)
		}
	}
	return actions
}

// Clicks reports mouse buttons going down between polls.
type Clicks struct {
	buttons edges[uint32]
}

// NewClicks creates a click detector.
func NewClicks() *Clicks {
	return &Clicks{buttons: edges[uint32]{}}
}

// Pressed reports whether the buttons in mask went down since the previous
// poll. mouseState is the mask returned by sdl.GetMouseState.
func (c *Clicks) Pressed(mouseState, mask uint32) bool {
	return c.buttons.rose(mask, mouseState&mask != 0)
}
