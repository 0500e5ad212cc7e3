package transactions

type BookingItemRequest struct {
	TicketTypeID string `json:"ticket_type_id" binding:"required,uuid"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

type CreateBookingRequest struct {
	Items       []BookingItemRequest `json:"items" binding:"required,min=1,dive"`
	VoucherCode string               `json:"voucher_code"`
	CouponCode  string               `json:"coupon_code"`
	PointsUsed  int64                `json:"points_used" binding:"min=0"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type ReviewQueueQuery struct {
	EventID string `form:"eventId" binding:"omitempty,uuid"`
	Status  string `form:"status" binding:"omitempty,oneof=WAITING_PAYMENT WAITING_ADMIN_CONFIRMATION DONE REJECTED EXPIRED CANCELED"`
	Search  string `form:"search"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
