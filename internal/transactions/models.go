package transactions

import (
	"time"

	"eventure/internal/events"
	"eventure/internal/inventory"
	"eventure/internal/users"

	"github.com/google/uuid"
)

// Transaction is one purchase moving through the payment-confirmation
// workflow. Item prices are snapshotted at creation and never re-read from
// the ticket type.
type Transaction struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BuyerID uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;index"`
	EventID uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`

	Subtotal        int64      `json:"subtotal" gorm:"not null"`
	VoucherID       *uuid.UUID `json:"voucher_id,omitempty" gorm:"type:uuid"`
	VoucherDiscount int64      `json:"voucher_discount" gorm:"not null;default:0"`
	CouponID        *uuid.UUID `json:"coupon_id,omitempty" gorm:"type:uuid"`
	CouponDiscount  int64      `json:"coupon_discount" gorm:"not null;default:0"`
	PointsUsed      int64      `json:"points_used" gorm:"not null;default:0"`
	TotalPayable    int64      `json:"total_payable" gorm:"not null"`

	Status       Status    `json:"status" gorm:"type:varchar(30);not null;default:'WAITING_PAYMENT';index"`
	PaymentDueAt time.Time `json:"payment_due_at" gorm:"not null;index"`

	DecisionByID    *uuid.UUID `json:"decision_by_id,omitempty" gorm:"type:uuid"`
	DecisionAt      *time.Time `json:"decision_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty" gorm:"type:text"`

	// Relationships
	Items []TransactionItem `json:"items,omitempty" gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE;"`
	Proof *PaymentProof     `json:"proof,omitempty" gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE;"`
	Buyer *users.User       `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Event *events.Event     `json:"event,omitempty" gorm:"foreignKey:EventID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionItem is one booked line with its price frozen at booking time.
type TransactionItem struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TransactionID uuid.UUID `json:"transaction_id" gorm:"type:uuid;not null;index"`
	TicketTypeID  uuid.UUID `json:"ticket_type_id" gorm:"type:uuid;not null"`
	Quantity      int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	UnitPrice     int64     `json:"unit_price" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentProof is the buyer's uploaded evidence of payment. One per
// transaction, immutable once created.
type PaymentProof struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TransactionID uuid.UUID `json:"transaction_id" gorm:"type:uuid;not null;uniqueIndex"`
	ImagePath     string    `json:"image_path" gorm:"not null;size:500"`
	UploadedAt    time.Time `json:"uploaded_at" gorm:"not null"`
}

// AttendeeRecord is proof of entry, generated only when a transaction
// reaches DONE: one row per ticket unit purchased.
type AttendeeRecord struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TransactionID uuid.UUID `json:"transaction_id" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	EventID       uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	TicketTypeID  uuid.UUID `json:"ticket_type_id" gorm:"type:uuid;not null"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (TransactionItem) TableName() string {
	return "transaction_items"
}

func (PaymentProof) TableName() string {
	return "payment_proofs"
}

func (AttendeeRecord) TableName() string {
	return "attendee_records"
}

// IsOverdue reports whether the payment window has elapsed without proof.
func (t *Transaction) IsOverdue(now time.Time) bool {
	return t.Status == StatusWaitingPayment && now.After(t.PaymentDueAt)
}

// ReservationLines maps the items back to the ledger's line format.
func (t *Transaction) ReservationLines() []inventory.ReservationLine {
	lines := make([]inventory.ReservationLine, 0, len(t.Items))
	for _, item := range t.Items {
		lines = append(lines, inventory.ReservationLine{
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
		})
	}
	return lines
}

// TotalUnits is the number of ticket units across all items.
func (t *Transaction) TotalUnits() int {
	units := 0
	for _, item := range t.Items {
		units += item.Quantity
	}
	return units
}
