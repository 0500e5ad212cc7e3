package transactions

import "time"

type BookingResponse struct {
	TransactionID   string    `json:"transaction_id"`
	Status          string    `json:"status"`
	Subtotal        int64     `json:"subtotal"`
	VoucherDiscount int64     `json:"voucher_discount"`
	CouponDiscount  int64     `json:"coupon_discount"`
	PointsUsed      int64     `json:"points_used"`
	TotalPayableIDR int64     `json:"total_payable_idr"`
	PaymentDueAt    time.Time `json:"payment_due_at"`
}

type TransactionItemResponse struct {
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
}

type TransactionResponse struct {
	ID              string                    `json:"id"`
	BuyerID         string                    `json:"buyer_id"`
	BuyerName       string                    `json:"buyer_name,omitempty"`
	EventID         string                    `json:"event_id"`
	EventTitle      string                    `json:"event_title,omitempty"`
	Items           []TransactionItemResponse `json:"items"`
	Subtotal        int64                     `json:"subtotal"`
	VoucherDiscount int64                     `json:"voucher_discount"`
	CouponDiscount  int64                     `json:"coupon_discount"`
	PointsUsed      int64                     `json:"points_used"`
	TotalPayableIDR int64                     `json:"total_payable_idr"`
	Status          string                    `json:"status"`
	PaymentDueAt    time.Time                 `json:"payment_due_at"`
	ProofUploadedAt *time.Time                `json:"proof_uploaded_at,omitempty"`
	RejectionReason string                    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
}

type PaginatedTransactions struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

func (t *Transaction) ToResponse() TransactionResponse {
	items := make([]TransactionItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, TransactionItemResponse{
			TicketTypeID: item.TicketTypeID.String(),
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		})
	}

	resp := TransactionResponse{
		ID:              t.ID.String(),
		BuyerID:         t.BuyerID.String(),
		EventID:         t.EventID.String(),
		Items:           items,
		Subtotal:        t.Subtotal,
		VoucherDiscount: t.VoucherDiscount,
		CouponDiscount:  t.CouponDiscount,
		PointsUsed:      t.PointsUsed,
		TotalPayableIDR: t.TotalPayable,
		Status:          t.Status.String(),
		PaymentDueAt:    t.PaymentDueAt,
		RejectionReason: t.RejectionReason,
		CreatedAt:       t.CreatedAt,
	}

	if t.Buyer != nil {
		resp.BuyerName = t.Buyer.Name
	}
	if t.Event != nil {
		resp.EventTitle = t.Event.Title
	}
	if t.Proof != nil {
		uploadedAt := t.Proof.UploadedAt
		resp.ProofUploadedAt = &uploadedAt
	}

	return resp
}
