package voucher

import (
	"fmt"
	"time"

	"shopsifu-discount/internal/model"
)

// Evaluate runs the full business validity check of a voucher against a
// cart snapshot and, when every check passes, computes the discount amount
// and resulting order total. Business invalidity is always a result value;
// Evaluate never fails.
//
// The checks are sequential and short-circuit in this order: status,
// validity window, usage cap, minimum order value, cart applicability.
func Evaluate(v *model.Voucher, snapshot *model.CartSnapshot, now time.Time) model.ValidationResult {
	if v.DiscountStatus != model.VoucherStatusActive {
		return invalid(model.RedemptionErrInactive, "This voucher is inactive")
	}

	if !v.InWindow(now) {
		return invalid(model.RedemptionErrOutOfDate, "This voucher has expired or has not started yet")
	}

	if v.IsExhausted() {
		return invalid(model.RedemptionErrExhausted, "This voucher has been fully redeemed")
	}

	var orderTotal int64
	if snapshot != nil {
		orderTotal = snapshot.OrderTotal
	}
	if v.MinOrderValue > 0 && orderTotal < v.MinOrderValue {
		return invalid(model.RedemptionErrBelowMinimum,
			fmt.Sprintf("Order total must be at least %s to use this voucher", FormatAmount(v.MinOrderValue)))
	}

	if !AppliesToCart(v, snapshot) {
		return invalid(model.RedemptionErrNotApplicable, "This voucher is not applicable to the items in your cart")
	}

	amount := DiscountAmount(v, orderTotal)

	return model.ValidationResult{
		IsValid:         true,
		Discount:        v,
		DiscountAmount:  amount,
		FinalOrderTotal: orderTotal - amount,
	}
}

// DiscountAmount computes the discount a voucher produces on an order
// total, in the smallest currency unit. The amount never exceeds the order
// total: percentage discounts are clamped to the optional cap and fixed
// discounts to the total itself.
func DiscountAmount(v *model.Voucher, orderTotal int64) int64 {
	var amount int64
	switch v.DiscountType {
	case model.DiscountTypePercentage:
		amount = orderTotal * v.Value / 100
		if v.MaxDiscountValue != nil && amount > *v.MaxDiscountValue {
			amount = *v.MaxDiscountValue
		}
	case model.DiscountTypeFixAmount:
		amount = v.Value
		if amount > orderTotal {
			amount = orderTotal
		}
	}
	return amount
}

func invalid(kind, message string) model.ValidationResult {
	return model.ValidationResult{
		IsValid:   false,
		ErrorKind: kind,
		Error:     message,
	}
}
