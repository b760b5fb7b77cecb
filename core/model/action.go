package model

// ActionKind defines the type of action the automation engine recommends.
type ActionKind int

const (
	ActionTurnOff ActionKind = iota
	ActionNotify
)

// String returns a human-readable representation of the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionTurnOff:
		return "turn_off"
	case ActionNotify:
		return "notify"
	default:
		return "unknown"
	}
}

// UpcomingAction is an ephemeral recommendation produced by the automation
// engine. It is recomputed on every relevant change and never persisted.
type UpcomingAction struct {
	Kind    ActionKind `json:"kind"`
	Devices []Device   `json:"devices,omitempty"`
	Reason  string     `json:"reason"`
	Message string     `json:"message,omitempty"`
}
