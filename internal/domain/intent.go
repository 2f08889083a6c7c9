package domain

// IntentType classifies what the user wants to do in cook mode.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentToggleIngredient // payload: 1-based ingredient number
	IntentProceed
	IntentNext
	IntentPrevious
	IntentRepeat
	IntentStatus
	IntentExit
	IntentHelp
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentToggleIngredient:
		return "toggle_ingredient"
	case IntentProceed:
		return "proceed"
	case IntentNext:
		return "next"
	case IntentPrevious:
		return "previous"
	case IntentRepeat:
		return "repeat"
	case IntentStatus:
		return "status"
	case IntentExit:
		return "exit"
	case IntentHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // ingredient number or the unmatched input
}
