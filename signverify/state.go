package signverify

import "fmt"

// State is a step of the signing state machine:
//
//	Ready -> Sampling -> Committing -> BoundCheck -> Accepted
//	                                             \-> Retry -> Sampling
//	Retry after MaxAttempts -> Failed
type State uint8

const (
	Ready State = iota
	Sampling
	Committing
	BoundCheck
	Accepted
	Retry
	Failed
)

var stateNames = [...]string{"ready", "sampling", "committing", "bound-check", "accepted", "retry", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}
