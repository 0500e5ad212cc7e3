package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType tags a transaction lifecycle message on the wire.
type EventType string

const (
	EventTransactionCreated  EventType = "transaction.created"
	EventProofSubmitted      EventType = "transaction.proof_submitted"
	EventTransactionDone     EventType = "transaction.done"
	EventTransactionRejected EventType = "transaction.rejected"
	EventTransactionExpired  EventType = "transaction.expired"
	EventTransactionCanceled EventType = "transaction.canceled"
)

// TransactionEvent is the message published after every transaction state
// change. Consumers drive email and in-app notifications off it.
type TransactionEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          EventType `json:"type"`
	TransactionID uuid.UUID `json:"transaction_id"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	EventID       uuid.UUID `json:"event_id"`
	Status        string    `json:"status"`
	TotalPayable  int64     `json:"total_payable"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewTransactionEvent(eventType EventType, transactionID, buyerID, eventID uuid.UUID, status string, totalPayable int64) *TransactionEvent {
	return &TransactionEvent{
		ID:            uuid.New(),
		Type:          eventType,
		TransactionID: transactionID,
		BuyerID:       buyerID,
		EventID:       eventID,
		Status:        status,
		TotalPayable:  totalPayable,
		OccurredAt:    time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all messages for one transaction to the same
// partition so consumers observe its transitions in order.
func (e *TransactionEvent) PartitionKey() string {
	return e.TransactionID.String()
}
