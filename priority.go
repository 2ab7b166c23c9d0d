package xdispatch

// Priority is a total order used as a scheduling hint: higher priorities are
// preferred whenever more than one item is runnable. It does not guarantee a
// deadline, only that a worker pool will drain higher priorities first
// whenever there is a choice.
type Priority int

const (
	Background Priority = iota
	Utility
	Default
	UserInitiated
	UserInteractive

	numPriorities = int(UserInteractive) + 1
)

// Legacy three-class priority enum, kept for source compatibility with the
// original public header. The mapping is not configurable: High, Default and
// Low are synonyms of specific extended values.
const (
	High = UserInitiated
	Low  = Utility
)

func (p Priority) String() string {
	switch p {
	case Background:
		return "BACKGROUND"
	case Utility:
		return "UTILITY"
	case Default:
		return "DEFAULT"
	case UserInitiated:
		return "USER_INITIATED"
	case UserInteractive:
		return "USER_INTERACTIVE"
	default:
		return "UNKNOWN"
	}
}
