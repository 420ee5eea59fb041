// README: State machine tests; no database required.
package ride

import (
	"errors"
	"testing"
)

var allStatuses = []Status{
	StatusRequested, StatusAccepted, StatusDriverEnRoute,
	StatusDriverArrived, StatusInProgress, StatusCompleted, StatusCancelled,
}

// TestCanTransitionFullGrid checks every (from, to) pair, self-loops included.
func TestCanTransitionFullGrid(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusRequested, StatusAccepted}:           true,
		{StatusRequested, StatusCancelled}:          true,
		{StatusAccepted, StatusDriverEnRoute}:       true,
		{StatusAccepted, StatusCancelled}:           true,
		{StatusDriverEnRoute, StatusDriverArrived}:  true,
		{StatusDriverEnRoute, StatusCancelled}:      true,
		{StatusDriverArrived, StatusInProgress}:     true,
		{StatusDriverArrived, StatusCancelled}:      true,
		{StatusInProgress, StatusCompleted}:         true,
		{StatusInProgress, StatusCancelled}:         true,
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

// Terminal states admit nothing, not even re-cancellation.
func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusCancelled} {
		for _, to := range allStatuses {
			if CanTransition(from, to) {
				t.Errorf("terminal %s should not transition to %s", from, to)
			}
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	if CanTransition(Status("bogus"), StatusAccepted) {
		t.Error("unknown source status should never transition")
	}
	if ValidStatus(Status("bogus")) {
		t.Error("bogus should not be a valid status")
	}
}

func TestTransitionErrorNamesBothEnds(t *testing.T) {
	err := &TransitionError{From: StatusCompleted, To: StatusInProgress}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Error("TransitionError should match ErrInvalidTransition")
	}
	msg := err.Error()
	if want := "invalid status transition from 'completed' to 'in_progress'"; msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}
}
