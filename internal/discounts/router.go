package discounts

import (
	"github.com/gin-gonic/gin"
)

// SetupDiscountRoutes configures voucher/coupon preview routes. Validation
// is read-only, so no auth is required to preview a code.
func SetupDiscountRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.POST("/vouchers/validate", controller.ValidateVoucher)
	rg.POST("/coupons/validate", controller.ValidateCoupon)
}
