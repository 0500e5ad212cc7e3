package transactions

import (
	"context"
	"fmt"
	"time"

	"eventure/internal/discounts"
	"eventure/internal/events"
	"eventure/internal/inventory"
	"eventure/internal/notifications"
	"eventure/internal/shared/apperrors"
	"eventure/internal/users"
	"eventure/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventCatalog is the slice of the events service the booking flow needs.
type EventCatalog interface {
	GetForBooking(ctx context.Context, id uuid.UUID) (*events.Event, error)
	InvalidateCache(ctx context.Context, id uuid.UUID)
}

// Service interface defines the contract for the purchase workflow
type Service interface {
	Create(ctx context.Context, buyerID, eventID uuid.UUID, req CreateBookingRequest) (*Transaction, error)
	SubmitPaymentProof(ctx context.Context, buyerID, transactionID uuid.UUID, imagePath string) (*Transaction, error)
	Cancel(ctx context.Context, buyerID, transactionID uuid.UUID) (*Transaction, error)

	Accept(ctx context.Context, organizerID, transactionID uuid.UUID) (*Transaction, error)
	Reject(ctx context.Context, organizerID, transactionID uuid.UUID, reason string) (*Transaction, error)

	Get(ctx context.Context, viewerID uuid.UUID, viewerRole users.Role, transactionID uuid.UUID) (*Transaction, error)
	ListOrganizer(ctx context.Context, organizerID uuid.UUID, query ReviewQueueQuery) (*PaginatedTransactions, error)
	ListBuyer(ctx context.Context, buyerID uuid.UUID, page, limit int) (*PaginatedTransactions, error)

	// ExpireOverdue flips every overdue WAITING_PAYMENT transaction to
	// EXPIRED and rolls its holds back. Returns (scanned, expired).
	ExpireOverdue(ctx context.Context) (int, int, error)
}

type service struct {
	db            *gorm.DB
	repo          Repository
	ledger        inventory.Ledger
	discounts     discounts.Service
	catalog       EventCatalog
	publisher     notifications.Publisher
	log           *logger.Logger
	paymentWindow time.Duration
	sweepBatch    int
	now           func() time.Time
}

func NewService(
	db *gorm.DB,
	repo Repository,
	ledger inventory.Ledger,
	discountsService discounts.Service,
	catalog EventCatalog,
	publisher notifications.Publisher,
	log *logger.Logger,
	paymentWindow time.Duration,
	sweepBatch int,
) Service {
	return &service{
		db:            db,
		repo:          repo,
		ledger:        ledger,
		discounts:     discountsService,
		catalog:       catalog,
		publisher:     publisher,
		log:           log,
		paymentWindow: paymentWindow,
		sweepBatch:    sweepBatch,
		now:           time.Now,
	}
}

func (s *service) Create(ctx context.Context, buyerID, eventID uuid.UUID, req CreateBookingRequest) (*Transaction, error) {
	event, err := s.catalog.GetForBooking(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.Status.IsBookable() {
		return nil, apperrors.New(apperrors.KindValidation, "event is not open for booking")
	}

	prices := make(map[uuid.UUID]int64, len(event.TicketTypes))
	for _, tt := range event.TicketTypes {
		prices[tt.ID] = tt.Price
	}

	var subtotal int64
	seen := make(map[uuid.UUID]bool, len(req.Items))
	items := make([]TransactionItem, 0, len(req.Items))
	lines := make([]inventory.ReservationLine, 0, len(req.Items))
	for _, item := range req.Items {
		ticketTypeID, err := uuid.Parse(item.TicketTypeID)
		if err != nil {
			return nil, apperrors.New(apperrors.KindValidation, "invalid ticket type id")
		}
		if seen[ticketTypeID] {
			return nil, apperrors.New(apperrors.KindValidation, "duplicate ticket type in booking")
		}
		seen[ticketTypeID] = true

		price, ok := prices[ticketTypeID]
		if !ok {
			return nil, apperrors.New(apperrors.KindValidation, "ticket type does not belong to this event")
		}

		subtotal += price * int64(item.Quantity)
		items = append(items, TransactionItem{
			TicketTypeID: ticketTypeID,
			Quantity:     item.Quantity,
			UnitPrice:    price,
		})
		lines = append(lines, inventory.ReservationLine{
			TicketTypeID: ticketTypeID,
			Quantity:     item.Quantity,
		})
	}

	now := s.now()
	transaction := &Transaction{
		BuyerID:      buyerID,
		EventID:      eventID,
		Subtotal:     subtotal,
		Status:       StatusWaitingPayment,
		PaymentDueAt: now.Add(s.paymentWindow),
		Items:        items,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.Reserve(tx, eventID, lines); err != nil {
			return err
		}

		applied, err := s.discounts.ApplyAtCommit(tx, discounts.ApplyRequest{
			EventID:         eventID,
			BuyerID:         buyerID,
			VoucherCode:     req.VoucherCode,
			CouponCode:      req.CouponCode,
			PointsRequested: req.PointsUsed,
			Subtotal:        subtotal,
		})
		if err != nil {
			return err
		}

		transaction.VoucherID = applied.VoucherID
		transaction.VoucherDiscount = applied.VoucherDiscount
		transaction.CouponID = applied.CouponID
		transaction.CouponDiscount = applied.CouponDiscount
		transaction.PointsUsed = applied.PointsUsed
		transaction.TotalPayable = applied.TotalPayable

		return s.repo.Create(tx, transaction)
	})
	if err != nil {
		return nil, err
	}

	s.catalog.InvalidateCache(ctx, eventID)
	s.log.LogTransactionCreated(ctx, transaction.ID.String(), eventID.String(), buyerID.String(), transaction.TotalPayable)
	s.publish(ctx, notifications.EventTransactionCreated, transaction, "")

	return transaction, nil
}

func (s *service) SubmitPaymentProof(ctx context.Context, buyerID, transactionID uuid.UUID, imagePath string) (*Transaction, error) {
	transaction, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.BuyerID != buyerID {
		return nil, apperrors.New(apperrors.KindForbidden, "transaction does not belong to you")
	}

	transaction, err = s.ensureNotExpired(ctx, transaction)
	if err != nil {
		return nil, err
	}

	switch {
	case transaction.Status == StatusExpired:
		return nil, apperrors.New(apperrors.KindPaymentWindowExpired, "payment window has expired")
	case transaction.Proof != nil || transaction.Status == StatusWaitingAdminConfirmation:
		return nil, apperrors.New(apperrors.KindProofAlreadySubmitted, "payment proof already submitted for this transaction")
	case transaction.Status != StatusWaitingPayment:
		return nil, apperrors.Newf(apperrors.KindInvalidState, "cannot submit payment proof while transaction is %s", transaction.Status)
	}

	proof := &PaymentProof{
		TransactionID: transaction.ID,
		ImagePath:     imagePath,
		UploadedAt:    s.now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flipped, err := s.repo.UpdateStatusGuarded(tx, transaction.ID, StatusWaitingPayment, StatusWaitingAdminConfirmation, nil)
		if err != nil {
			return err
		}
		if !flipped {
			return apperrors.New(apperrors.KindInvalidState, "transaction is no longer awaiting payment")
		}
		return s.repo.CreateProof(tx, proof)
	})
	if err != nil {
		return nil, err
	}

	transaction.Status = StatusWaitingAdminConfirmation
	transaction.Proof = proof
	s.log.LogTransactionTransition(ctx, transaction.ID.String(), StatusWaitingPayment.String(), StatusWaitingAdminConfirmation.String())
	s.publish(ctx, notifications.EventProofSubmitted, transaction, "")

	return transaction, nil
}

func (s *service) Cancel(ctx context.Context, buyerID, transactionID uuid.UUID) (*Transaction, error) {
	transaction, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.BuyerID != buyerID {
		return nil, apperrors.New(apperrors.KindForbidden, "transaction does not belong to you")
	}

	transaction, err = s.ensureNotExpired(ctx, transaction)
	if err != nil {
		return nil, err
	}
	if transaction.Status != StatusWaitingPayment {
		return nil, apperrors.Newf(apperrors.KindInvalidState, "cannot cancel a transaction that is %s", transaction.Status)
	}

	if err := s.finishWithRollback(ctx, transaction, StatusCanceled, nil); err != nil {
		return nil, err
	}

	transaction.Status = StatusCanceled
	s.log.LogTransactionTransition(ctx, transaction.ID.String(), StatusWaitingPayment.String(), StatusCanceled.String())
	s.publish(ctx, notifications.EventTransactionCanceled, transaction, "")

	return transaction, nil
}

func (s *service) Accept(ctx context.Context, organizerID, transactionID uuid.UUID) (*Transaction, error) {
	transaction, err := s.getOwned(ctx, organizerID, transactionID)
	if err != nil {
		return nil, err
	}

	transaction, err = s.ensureNotExpired(ctx, transaction)
	if err != nil {
		return nil, err
	}
	if transaction.Status != StatusWaitingAdminConfirmation {
		return nil, apperrors.Newf(apperrors.KindInvalidState, "cannot accept a transaction that is %s", transaction.Status)
	}

	now := s.now()
	attendees := make([]AttendeeRecord, 0, transaction.TotalUnits())
	for _, item := range transaction.Items {
		for i := 0; i < item.Quantity; i++ {
			attendees = append(attendees, AttendeeRecord{
				TransactionID: transaction.ID,
				UserID:        transaction.BuyerID,
				EventID:       transaction.EventID,
				TicketTypeID:  item.TicketTypeID,
			})
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flipped, err := s.repo.UpdateStatusGuarded(tx, transaction.ID, StatusWaitingAdminConfirmation, StatusDone, map[string]interface{}{
			"decision_by_id": organizerID,
			"decision_at":    now,
		})
		if err != nil {
			return err
		}
		if !flipped {
			return apperrors.New(apperrors.KindInvalidState, "transaction is no longer awaiting confirmation")
		}
		return s.repo.CreateAttendees(tx, attendees)
	})
	if err != nil {
		return nil, err
	}

	transaction.Status = StatusDone
	transaction.DecisionByID = &organizerID
	transaction.DecisionAt = &now
	s.log.LogOrganizerDecision(ctx, transaction.ID.String(), organizerID.String(), "accept")
	s.publish(ctx, notifications.EventTransactionDone, transaction, "")

	return transaction, nil
}

func (s *service) Reject(ctx context.Context, organizerID, transactionID uuid.UUID, reason string) (*Transaction, error) {
	transaction, err := s.getOwned(ctx, organizerID, transactionID)
	if err != nil {
		return nil, err
	}

	transaction, err = s.ensureNotExpired(ctx, transaction)
	if err != nil {
		return nil, err
	}
	if transaction.Status != StatusWaitingAdminConfirmation {
		return nil, apperrors.Newf(apperrors.KindInvalidState, "cannot reject a transaction that is %s", transaction.Status)
	}

	now := s.now()
	updates := map[string]interface{}{
		"decision_by_id":   organizerID,
		"decision_at":      now,
		"rejection_reason": reason,
	}
	if err := s.finishWithRollback(ctx, transaction, StatusRejected, updates); err != nil {
		return nil, err
	}

	transaction.Status = StatusRejected
	transaction.DecisionByID = &organizerID
	transaction.DecisionAt = &now
	transaction.RejectionReason = reason
	s.log.LogOrganizerDecision(ctx, transaction.ID.String(), organizerID.String(), "reject")
	s.publish(ctx, notifications.EventTransactionRejected, transaction, reason)

	return transaction, nil
}

func (s *service) Get(ctx context.Context, viewerID uuid.UUID, viewerRole users.Role, transactionID uuid.UUID) (*Transaction, error) {
	transaction, err := s.repo.GetDetail(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	allowed := transaction.BuyerID == viewerID ||
		viewerRole == users.RoleAdmin ||
		(transaction.Event != nil && transaction.Event.OrganizerID == viewerID)
	if !allowed {
		return nil, apperrors.New(apperrors.KindForbidden, "you cannot view this transaction")
	}

	return s.ensureNotExpired(ctx, transaction)
}

func (s *service) ListOrganizer(ctx context.Context, organizerID uuid.UUID, query ReviewQueueQuery) (*PaginatedTransactions, error) {
	results, totalCount, err := s.repo.ListForOrganizer(ctx, organizerID, query)
	if err != nil {
		return nil, err
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}
	return paginate(results, totalCount, query.Page, query.Limit), nil
}

func (s *service) ListBuyer(ctx context.Context, buyerID uuid.UUID, page, limit int) (*PaginatedTransactions, error) {
	results, totalCount, err := s.repo.ListForBuyer(ctx, buyerID, page, limit)
	if err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return paginate(results, totalCount, page, limit), nil
}

func (s *service) ExpireOverdue(ctx context.Context) (int, int, error) {
	start := s.now()
	overdue, err := s.repo.ListOverdue(ctx, start, s.sweepBatch)
	if err != nil {
		return 0, 0, err
	}

	expired := 0
	for i := range overdue {
		transaction := &overdue[i]
		flipped, err := s.expireOne(ctx, transaction)
		if err != nil {
			s.log.ErrorWithContext(ctx, "failed to expire transaction", err, map[string]interface{}{
				"transaction_id": transaction.ID.String(),
			})
			continue
		}
		if flipped {
			expired++
		}
	}

	s.log.LogExpirySweep(ctx, len(overdue), expired, time.Since(start))
	return len(overdue), expired, nil
}

// getOwned loads a transaction for an organizer decision. A transaction
// that does not exist and one owned by someone else look identical to the
// caller, so probing ids reveals nothing.
func (s *service) getOwned(ctx context.Context, organizerID, transactionID uuid.UUID) (*Transaction, error) {
	transaction, err := s.repo.GetDetail(ctx, transactionID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.New(apperrors.KindForbidden, "transaction does not belong to your events")
		}
		return nil, err
	}
	if transaction.Event == nil || transaction.Event.OrganizerID != organizerID {
		return nil, apperrors.New(apperrors.KindForbidden, "transaction does not belong to your events")
	}
	return transaction, nil
}

// ensureNotExpired applies the payment deadline lazily. An overdue
// WAITING_PAYMENT transaction is flipped to EXPIRED the moment anything
// touches it, so nobody ever observes a stale pending state between sweeps.
func (s *service) ensureNotExpired(ctx context.Context, transaction *Transaction) (*Transaction, error) {
	if !transaction.IsOverdue(s.now()) {
		return transaction, nil
	}

	if _, err := s.expireOne(ctx, transaction); err != nil {
		return nil, err
	}

	// Re-read: either we expired it or a concurrent writer moved it first.
	return s.repo.GetByID(ctx, transaction.ID)
}

// expireOne flips a single overdue transaction to EXPIRED and rolls its
// holds back. Losing the status race to another writer is not an error.
func (s *service) expireOne(ctx context.Context, transaction *Transaction) (bool, error) {
	flipped := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatusGuarded(tx, transaction.ID, StatusWaitingPayment, StatusExpired, nil)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		flipped = true
		return s.rollbackHolds(ctx, tx, transaction)
	})
	if err != nil {
		return false, err
	}

	if flipped {
		s.catalog.InvalidateCache(ctx, transaction.EventID)
		s.log.LogTransactionTransition(ctx, transaction.ID.String(), StatusWaitingPayment.String(), StatusExpired.String())
		expiredCopy := *transaction
		expiredCopy.Status = StatusExpired
		s.publish(ctx, notifications.EventTransactionExpired, &expiredCopy, "")
	}
	return flipped, nil
}

// finishWithRollback moves a transaction into a rollback terminal state and
// releases its holds in the same database transaction.
func (s *service) finishWithRollback(ctx context.Context, transaction *Transaction, to Status, updates map[string]interface{}) error {
	if !to.RequiresRollback() {
		return fmt.Errorf("status %s does not roll back holds", to)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flipped, err := s.repo.UpdateStatusGuarded(tx, transaction.ID, transaction.Status, to, updates)
		if err != nil {
			return err
		}
		if !flipped {
			return apperrors.Newf(apperrors.KindInvalidState, "transaction is no longer %s", transaction.Status)
		}
		return s.rollbackHolds(ctx, tx, transaction)
	})
	if err != nil {
		return err
	}

	s.catalog.InvalidateCache(ctx, transaction.EventID)
	return nil
}

// rollbackHolds returns seats, discount uses and points. The inventory
// release is the idempotency gate: when it reports the seats were already
// returned, the discount side is skipped too.
func (s *service) rollbackHolds(ctx context.Context, tx *gorm.DB, transaction *Transaction) error {
	released, err := s.ledger.Release(tx, transaction.ID, transaction.EventID, transaction.ReservationLines())
	if err != nil {
		return err
	}
	if !released {
		return nil
	}

	s.log.LogInventoryReleased(ctx, transaction.ID.String(), transaction.EventID.String())
	return s.discounts.ReleaseUsage(tx, discounts.ReleaseUsageRequest{
		BuyerID:    transaction.BuyerID,
		VoucherID:  transaction.VoucherID,
		CouponID:   transaction.CouponID,
		PointsUsed: transaction.PointsUsed,
	})
}

func (s *service) publish(ctx context.Context, eventType notifications.EventType, transaction *Transaction, reason string) {
	event := notifications.NewTransactionEvent(
		eventType,
		transaction.ID,
		transaction.BuyerID,
		transaction.EventID,
		transaction.Status.String(),
		transaction.TotalPayable,
	)
	event.Reason = reason

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish transaction event", err, map[string]interface{}{
			"transaction_id": transaction.ID.String(),
			"type":           string(eventType),
		})
	}
}

func paginate(results []Transaction, totalCount int64, page, limit int) *PaginatedTransactions {
	responses := make([]TransactionResponse, 0, len(results))
	for i := range results {
		responses = append(responses, results[i].ToResponse())
	}
	return &PaginatedTransactions{
		Transactions: responses,
		TotalCount:   totalCount,
		Page:         page,
		Limit:        limit,
	}
}
