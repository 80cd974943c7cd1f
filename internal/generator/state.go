package generator

// State — состояние оркестратора генерации.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateAwaitingCredential
	StateGenerating
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateAwaitingCredential:
		return "awaiting_credential"
	case StateGenerating:
		return "generating"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText позволяет отдавать состояние в JSON строкой.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
