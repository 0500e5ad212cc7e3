package discounts

import (
	"net/http"

	"eventure/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ValidateVoucher handles POST /api/v1/vouchers/validate
func (c *Controller) ValidateVoucher(ctx *gin.Context) {
	var req ValidateVoucherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	preview, err := c.service.ValidateVoucher(ctx.Request.Context(), req.Code, eventID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Voucher is valid", preview, nil)
}

// ValidateCoupon handles POST /api/v1/coupons/validate
func (c *Controller) ValidateCoupon(ctx *gin.Context) {
	var req ValidateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	preview, err := c.service.ValidateCoupon(ctx.Request.Context(), req.Code)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon is valid", preview, nil)
}
