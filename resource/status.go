package resource

// Status is the lifecycle state of a Resource.
type Status int

const (
	Idle Status = iota
	Loading
	Resolved
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Resolved:
		return "resolved"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Settled reports whether s is a terminal state of a fetch.
func (s Status) Settled() bool {
	return s == Resolved || s == Error
}
