package model

import "fmt"

const (
	StatusPending  = "pending"
	StatusFetching = "fetching"
	StatusWritten  = "written"
	StatusSkipped  = "skipped"
)

// There is deliberately no retry edge: a video that ends skipped stays
// skipped for the rest of the run.
var allowedTransitions = map[string]map[string]bool{
	"": {
		StatusPending: true,
	},
	StatusPending: {
		StatusFetching: true,
	},
	StatusFetching: {
		StatusWritten: true,
		StatusSkipped: true,
	},
	StatusWritten: {},
	StatusSkipped: {},
}

func IsKnownStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// VideoState tracks one video through a single run.
type VideoState struct {
	Ref    VideoRef
	Status string
}

func TransitionVideoStatus(v *VideoState, toStatus string) error {
	from := v.Status
	if !CanTransition(from, toStatus) {
		return fmt.Errorf("invalid video status transition: %q -> %q (video_id=%s)", from, toStatus, v.Ref.ID)
	}
	v.Status = toStatus
	return nil
}
