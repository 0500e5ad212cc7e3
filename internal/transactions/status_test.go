package transactions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	all := []Status{
		StatusWaitingPayment,
		StatusWaitingAdminConfirmation,
		StatusDone,
		StatusRejected,
		StatusExpired,
		StatusCanceled,
	}

	allowed := map[Status][]Status{
		StatusWaitingPayment:           {StatusWaitingAdminConfirmation, StatusExpired, StatusCanceled},
		StatusWaitingAdminConfirmation: {StatusDone, StatusRejected},
	}

	for _, from := range all {
		legal := map[Status]bool{}
		for _, to := range allowed[from] {
			legal[to] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			assert.Equal(t, legal[to], got, "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesAdmitNothing(t *testing.T) {
	terminals := []Status{StatusDone, StatusRejected, StatusExpired, StatusCanceled}
	targets := []Status{
		StatusWaitingPayment,
		StatusWaitingAdminConfirmation,
		StatusDone,
		StatusRejected,
		StatusExpired,
		StatusCanceled,
	}

	for _, from := range terminals {
		assert.True(t, from.IsTerminal(), "%s", from)
		for _, to := range targets {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s must be rejected", from, to)
		}
	}
}

func TestRequiresRollback(t *testing.T) {
	assert.False(t, StatusDone.RequiresRollback(), "a completed sale keeps its seats")
	assert.True(t, StatusRejected.RequiresRollback())
	assert.True(t, StatusExpired.RequiresRollback())
	assert.True(t, StatusCanceled.RequiresRollback())
	assert.False(t, StatusWaitingPayment.RequiresRollback())
	assert.False(t, StatusWaitingAdminConfirmation.RequiresRollback())
}

func TestIsValid(t *testing.T) {
	assert.True(t, StatusWaitingPayment.IsValid())
	assert.False(t, Status("PENDING").IsValid())
}
