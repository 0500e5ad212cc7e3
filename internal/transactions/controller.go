package transactions

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"eventure/internal/shared/config"
	"eventure/internal/shared/middleware"
	"eventure/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
	upload  config.UploadConfig
}

func NewController(service Service, upload config.UploadConfig) *Controller {
	return &Controller{service: service, upload: upload}
}

// CreateBooking handles POST /api/v1/events/:id/book
func (c *Controller) CreateBooking(ctx *gin.Context) {
	auth, err := middleware.GetAuthContext(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	transaction, err := c.service.Create(ctx.Request.Context(), auth.UserID, eventID, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	booking := BookingResponse{
		TransactionID:   transaction.ID.String(),
		Status:          transaction.Status.String(),
		Subtotal:        transaction.Subtotal,
		VoucherDiscount: transaction.VoucherDiscount,
		CouponDiscount:  transaction.CouponDiscount,
		PointsUsed:      transaction.PointsUsed,
		TotalPayableIDR: transaction.TotalPayable,
		PaymentDueAt:    transaction.PaymentDueAt,
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

// SubmitPaymentProof handles POST /api/v1/transactions/:id/payment-proof
func (c *Controller) SubmitPaymentProof(ctx *gin.Context) {
	auth, err := middleware.GetAuthContext(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid transaction ID", nil, nil)
		return
	}

	file, err := ctx.FormFile("proof")
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Payment proof image is required", nil, err.Error())
		return
	}
	if file.Size > c.upload.MaxSize {
		response.RespondJSON(ctx, "error", http.StatusBadRequest,
			fmt.Sprintf("File exceeds maximum size of %d bytes", c.upload.MaxSize), nil, nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Only JPG, PNG and WebP images are accepted", nil, nil)
		return
	}

	if err := os.MkdirAll(c.upload.Path, 0o755); err != nil {
		response.RespondError(ctx, err)
		return
	}

	filename := fmt.Sprintf("%s-%d%s", transactionID, time.Now().UnixNano(), ext)
	imagePath := filepath.Join(c.upload.Path, filename)
	if err := ctx.SaveUploadedFile(file, imagePath); err != nil {
		response.RespondError(ctx, err)
		return
	}

	transaction, err := c.service.SubmitPaymentProof(ctx.Request.Context(), auth.UserID, transactionID, imagePath)
	if err != nil {
		// Nothing references the file once the submission is refused.
		_ = os.Remove(imagePath)
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment proof submitted successfully", transaction.ToResponse(), nil)
}

// CancelTransaction handles PATCH /api/v1/transactions/:id/cancel
func (c *Controller) CancelTransaction(ctx *gin.Context) {
	auth, err := middleware.GetAuthContext(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid transaction ID", nil, nil)
		return
	}

	transaction, err := c.service.Cancel(ctx.Request.Context(), auth.UserID, transactionID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Transaction canceled", transaction.ToResponse(), nil)
}

// AcceptTransaction handles PATCH /api/v1/transactions/:id/accept
func (c *Controller) AcceptTransaction(ctx *gin.Context) {
	auth, err := middleware.GetAuthContext(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid transaction ID", nil, nil)
		return
	}

	transaction, err := c.service.Accept(ctx.Request.Context(), auth.UserID, transactionID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Transaction accepted", transaction.ToResponse(), nil)
}

// RejectTransaction handles PATCH /api/v1/transactions/:id/reject
func (c *Controller) RejectTransaction(ctx *gin.Context) {
	auth, err := middleware.GetAuthContext(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid transaction ID", nil, nil)
		return
	}

	var req RejectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	transaction, err := c.service.Reject(ctx.Request.Context(), auth.UserID, transactionID, req.Reason)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Transaction rejected", transaction.ToResponse(), nil)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (c *Controller) GetTransaction(ctx *gin.Context) {
	auth, err := middleware.GetAuthContext(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid transaction ID", nil, nil)
		return
	}

	transaction, err := c.service.Get(ctx.Request.Context(), auth.UserID, auth.Role, transactionID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Transaction retrieved successfully", transaction.ToResponse(), nil)
}

// ListOrganizerTransactions handles GET /api/v1/transactions/organizer
func (c *Controller) ListOrganizerTransactions(ctx *gin.Context) {
	auth, err := middleware.GetAuthContext(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	var query ReviewQueueQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListOrganizer(ctx.Request.Context(), auth.UserID, query)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Transactions retrieved successfully", result, nil)
}

// ListMyTransactions handles GET /api/v1/users/transactions
func (c *Controller) ListMyTransactions(ctx *gin.Context) {
	auth, err := middleware.GetAuthContext(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	result, err := c.service.ListBuyer(ctx.Request.Context(), auth.UserID, page, limit)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Transactions retrieved successfully", result, nil)
}
