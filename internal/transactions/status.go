package transactions

// Status is the lifecycle state of a purchase.
//
//	WAITING_PAYMENT -> WAITING_ADMIN_CONFIRMATION -> DONE | REJECTED
//	WAITING_PAYMENT -> EXPIRED | CANCELED
//
// DONE, REJECTED, EXPIRED and CANCELED are terminal: no transition leaves
// them, ever.
type Status string

const (
	StatusWaitingPayment           Status = "WAITING_PAYMENT"
	StatusWaitingAdminConfirmation Status = "WAITING_ADMIN_CONFIRMATION"
	StatusDone                     Status = "DONE"
	StatusRejected                 Status = "REJECTED"
	StatusExpired                  Status = "EXPIRED"
	StatusCanceled                 Status = "CANCELED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusWaitingPayment, StatusWaitingAdminConfirmation,
		StatusDone, StatusRejected, StatusExpired, StatusCanceled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusDone, StatusRejected, StatusExpired, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine defines s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusWaitingPayment:
		switch next {
		case StatusWaitingAdminConfirmation, StatusExpired, StatusCanceled:
			return true
		}
	case StatusWaitingAdminConfirmation:
		switch next {
		case StatusDone, StatusRejected:
			return true
		}
	}
	return false
}

// RequiresRollback reports whether entering this terminal state restores
// inventory and discount usage. DONE is the one terminal state that keeps
// the seats sold.
func (s Status) RequiresRollback() bool {
	switch s {
	case StatusRejected, StatusExpired, StatusCanceled:
		return true
	}
	return false
}
