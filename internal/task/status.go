package task

// Status is the lifecycle state of a task.
type Status int

const (
	StatusNew Status = iota
	StatusReady
	StatusKilled
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusReady:
		return "Ready"
	case StatusKilled:
		return "Killed"
	default:
		return "Unknown"
	}
}

// allowedTransition implements the task state machine:
// New -> Ready -> Killed, with Killed terminal.
func allowedTransition(from, to Status) bool {
	switch from {
	case StatusNew:
		return to == StatusReady
	case StatusReady:
		return to == StatusKilled
	default:
		return false
	}
}
