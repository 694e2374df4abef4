package requests

import "testing"

func TestNext_AllowedTransitions(t *testing.T) {
	cases := []struct {
		from   Status
		action Action
		want   Status
	}{
		{StatusPending, ActionApprove, StatusApproved},
		{StatusPending, ActionReject, StatusRejected},
		{StatusApproved, ActionReturn, StatusReturned},
	}
	for _, c := range cases {
		got, ok := Next(c.from, c.action)
		if !ok {
			t.Errorf("Next(%s, %s): expected transition to be allowed", c.from, c.action)
			continue
		}
		if got != c.want {
			t.Errorf("Next(%s, %s) = %s, want %s", c.from, c.action, got, c.want)
		}
	}
}

func TestNext_ForbiddenTransitions(t *testing.T) {
	cases := []struct {
		from   Status
		action Action
	}{
		{StatusPending, ActionReturn},
		{StatusApproved, ActionApprove}, // 二重承認は二重引当にしない
		{StatusApproved, ActionReject},
		{StatusRejected, ActionApprove},
		{StatusRejected, ActionReject},
		{StatusRejected, ActionReturn},
		{StatusReturned, ActionApprove},
		{StatusReturned, ActionReject},
		{StatusReturned, ActionReturn}, // 二重返却
	}
	for _, c := range cases {
		if _, ok := Next(c.from, c.action); ok {
			t.Errorf("Next(%s, %s): expected transition to be forbidden", c.from, c.action)
		}
	}
}

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewInvalidArgumentError("x"), 400},
		{NewForbiddenError("x"), 403},
		{NewNotFoundError("x"), 404},
		{NewConflictError("x"), 409},
		{NewOutOfStockError(), 409},
		{NewQuotaExceededError(), 409},
		{NewInvalidTransitionError(StatusReturned, ActionReturn), 422},
		{&DomainError{Code: ErrCodeInternal, Message: "x"}, 500},
	}
	for _, c := range cases {
		if got := ToHTTPStatus(c.err); got != c.want {
			t.Errorf("ToHTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
