package voucher

import "shopsifu-discount/internal/model"

// FilterEligible applies the in-process eligibility checks that cannot be
// pushed into the storage query: the usage cap and, when a cart was
// supplied, the intersection of a SPECIFIC-apply voucher's targets with the
// resolved cart contents.
//
// hasCart distinguishes "browsing without a cart" from "cart resolved to
// nothing": without a cart the intersection check is skipped so shoppers
// still see SPECIFIC vouchers they might use later.
func FilterEligible(vouchers []model.Voucher, snapshot *model.CartSnapshot, hasCart bool) []model.Voucher {
	eligible := make([]model.Voucher, 0, len(vouchers))
	for _, v := range vouchers {
		if v.IsExhausted() {
			continue
		}
		if hasCart && !AppliesToCart(&v, snapshot) {
			continue
		}
		eligible = append(eligible, v)
	}
	return eligible
}

// AppliesToCart reports whether a voucher's applicability rule matches the
// cart snapshot. ALL-apply vouchers always match; SPECIFIC-apply vouchers
// need at least one of their product/category/brand targets in the cart.
func AppliesToCart(v *model.Voucher, snapshot *model.CartSnapshot) bool {
	if v.DiscountApplyType != model.ApplyTypeSpecific {
		return true
	}
	if snapshot == nil {
		return false
	}
	return intersects(v.ProductIDs, snapshot.ProductIDs) ||
		intersects(v.CategoryIDs, snapshot.CategoryIDs) ||
		intersects(v.BrandIDs, snapshot.BrandIDs)
}

// intersects reports whether the two id slices share at least one element.
func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
