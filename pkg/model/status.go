package model

import "fmt"

// Status is the closed set of booking lifecycle states. The stored status
// of a booking is always derivable as the type of its most recent event.
type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusDeparted  Status = "DEPARTED"
	StatusArrived   Status = "ARRIVED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// nextStates encodes the full transition table. DELIVERED and CANCELLED
// are terminal; CANCELLED is reachable only before arrival.
var nextStates = map[Status][]Status{
	StatusBooked:    {StatusDeparted, StatusCancelled},
	StatusDeparted:  {StatusArrived, StatusCancelled},
	StatusArrived:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

func (s Status) Valid() bool {
	_, ok := nextStates[s]
	return ok
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// TransitionError describes why a requested lifecycle transition is not
// allowed from the booking's current state.
type TransitionError struct {
	Current Status
	Target  Status
	Reason  string
}

func (e *TransitionError) Error() string {
	return e.Reason
}

// CanTransition returns nil when a booking in current state may move to
// target, or a *TransitionError naming the violated guard. Requesting the
// state the booking is already in is rejected, not treated as a no-op:
// callers must not assume retried requests are idempotent.
func CanTransition(current, target Status) error {
	if !current.Valid() {
		return &TransitionError{current, target, fmt.Sprintf("unknown booking status %q", current)}
	}
	if !target.Valid() || target == StatusBooked {
		return &TransitionError{current, target, fmt.Sprintf("invalid target status %q", target)}
	}

	if current == target {
		return &TransitionError{current, target, "booking is already " + statusPhrase(current)}
	}

	for _, allowed := range nextStates[current] {
		if allowed == target {
			return nil
		}
	}

	switch {
	case target == StatusCancelled && current == StatusArrived:
		return &TransitionError{current, target, "cannot cancel a booking that has already arrived"}
	case current == StatusCancelled:
		return &TransitionError{current, target, "booking is cancelled; no further changes are allowed"}
	case current == StatusDelivered:
		return &TransitionError{current, target, "booking is already delivered; no further changes are allowed"}
	case target == StatusDelivered:
		return &TransitionError{current, target, "booking must be ARRIVED before it can be delivered"}
	case target == StatusArrived:
		return &TransitionError{current, target, "booking must be DEPARTED before it can arrive"}
	default:
		return &TransitionError{current, target, fmt.Sprintf("cannot move booking from %s to %s", current, target)}
	}
}

func statusPhrase(s Status) string {
	switch s {
	case StatusBooked:
		return "booked"
	case StatusDeparted:
		return "departed"
	case StatusArrived:
		return "arrived"
	case StatusDelivered:
		return "delivered"
	case StatusCancelled:
		return "cancelled"
	default:
		return string(s)
	}
}
