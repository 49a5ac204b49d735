package validation

import (
	"regexp"

	"shopsifu-discount/internal/model"

	"github.com/google/uuid"
)

var codeRegex = regexp.MustCompile(`^[A-Z0-9]{1,5}$`)

// ValidateCreate checks a voucher creation request against the core
// invariants. It returns the full list of field errors rather than stopping
// at the first, so clients can surface every problem at once.
func ValidateCreate(req *model.CreateVoucherRequest) model.ValidationErrors {
	var errs model.ValidationErrors

	if !codeRegex.MatchString(req.Code) {
		errs = append(errs, model.FieldError{Field: "code", Message: "must be 1-5 uppercase letters or digits"})
	}

	if req.Name == "" {
		errs = append(errs, model.FieldError{Field: "name", Message: "is required"})
	}

	switch req.DiscountType {
	case model.DiscountTypePercentage:
		if req.Value < 1 || req.Value > 100 {
			errs = append(errs, model.FieldError{Field: "value", Message: "must be between 1 and 100 for a percentage discount"})
		}
		if req.MaxDiscountValue != nil && *req.MaxDiscountValue <= 0 {
			errs = append(errs, model.FieldError{Field: "maxDiscountValue", Message: "must be greater than zero"})
		}
	case model.DiscountTypeFixAmount:
		if req.Value <= 0 {
			errs = append(errs, model.FieldError{Field: "value", Message: "must be greater than zero"})
		}
		if req.MaxDiscountValue != nil {
			errs = append(errs, model.FieldError{Field: "maxDiscountValue", Message: "is only applicable to percentage discounts"})
		}
	default:
		errs = append(errs, model.FieldError{Field: "discountType", Message: "must be PERCENTAGE or FIX_AMOUNT"})
	}

	if req.MinOrderValue < 0 {
		errs = append(errs, model.FieldError{Field: "minOrderValue", Message: "must not be negative"})
	}

	// maxUses = 0 means unlimited; anything below that is a caller mistake.
	if req.MaxUses < 0 {
		errs = append(errs, model.FieldError{Field: "maxUses", Message: "must be zero (unlimited) or positive"})
	}
	if req.MaxUsesPerUser < 0 {
		errs = append(errs, model.FieldError{Field: "maxUsesPerUser", Message: "must not be negative"})
	}
	if req.MaxUses > 0 && req.MaxUsesPerUser > req.MaxUses {
		errs = append(errs, model.FieldError{Field: "maxUsesPerUser", Message: "must not exceed maxUses"})
	}

	if req.StartDate.IsZero() {
		errs = append(errs, model.FieldError{Field: "startDate", Message: "is required"})
	}
	if req.EndDate.IsZero() {
		errs = append(errs, model.FieldError{Field: "endDate", Message: "is required"})
	}
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && !req.StartDate.Before(req.EndDate) {
		errs = append(errs, model.FieldError{Field: "startDate", Message: "must be before endDate"})
	}

	if !validVoucherType(req.VoucherType) {
		errs = append(errs, model.FieldError{Field: "voucherType", Message: "must be PLATFORM, SHOP, PRODUCT, CATEGORY or BRAND"})
	}
	if req.DisplayType != model.DisplayTypePublic && req.DisplayType != model.DisplayTypePrivate {
		errs = append(errs, model.FieldError{Field: "displayType", Message: "must be PUBLIC or PRIVATE"})
	}

	switch req.DiscountApplyType {
	case model.ApplyTypeAll:
	case model.ApplyTypeSpecific:
		if len(req.ProductIDs) == 0 && len(req.CategoryIDs) == 0 && len(req.BrandIDs) == 0 {
			errs = append(errs, model.FieldError{Field: "discountApplyType", Message: "SPECIFIC requires at least one product, category or brand"})
		}
	default:
		errs = append(errs, model.FieldError{Field: "discountApplyType", Message: "must be ALL or SPECIFIC"})
	}

	if req.IsPlatform {
		if req.ShopID != nil {
			errs = append(errs, model.FieldError{Field: "shopId", Message: "must be empty for a platform voucher"})
		}
		if req.VoucherType != model.VoucherTypePlatform {
			errs = append(errs, model.FieldError{Field: "voucherType", Message: "must be PLATFORM for a platform voucher"})
		}
	}

	if req.ShopID != nil {
		if _, err := uuid.Parse(*req.ShopID); err != nil {
			errs = append(errs, model.FieldError{Field: "shopId", Message: "must be a valid uuid"})
		}
	}

	return errs
}

// ValidateUpdate checks an update request against the invariants, using the
// stored voucher for the fields the request leaves untouched.
func ValidateUpdate(existing *model.Voucher, req *model.UpdateVoucherRequest) model.ValidationErrors {
	var errs model.ValidationErrors

	if req.Name != nil && *req.Name == "" {
		errs = append(errs, model.FieldError{Field: "name", Message: "must not be empty"})
	}

	maxUses := existing.MaxUses
	if req.MaxUses != nil {
		if *req.MaxUses < 0 {
			errs = append(errs, model.FieldError{Field: "maxUses", Message: "must be zero (unlimited) or positive"})
		}
		maxUses = *req.MaxUses
	}
	// maxUsesPerUser is immutable, but tightening maxUses below it would
	// break the cap ordering.
	if maxUses > 0 && existing.MaxUsesPerUser > maxUses {
		errs = append(errs, model.FieldError{Field: "maxUses", Message: "must not drop below maxUsesPerUser"})
	}

	start := existing.StartDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	end := existing.EndDate
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if !start.Before(end) {
		errs = append(errs, model.FieldError{Field: "startDate", Message: "must be before endDate"})
	}

	if req.DisplayType != nil && *req.DisplayType != model.DisplayTypePublic && *req.DisplayType != model.DisplayTypePrivate {
		errs = append(errs, model.FieldError{Field: "displayType", Message: "must be PUBLIC or PRIVATE"})
	}
	if req.DiscountStatus != nil && *req.DiscountStatus != model.VoucherStatusActive && *req.DiscountStatus != model.VoucherStatusInactive {
		errs = append(errs, model.FieldError{Field: "discountStatus", Message: "must be ACTIVE or INACTIVE"})
	}

	applyType := existing.DiscountApplyType
	if req.DiscountApplyType != nil {
		if *req.DiscountApplyType != model.ApplyTypeAll && *req.DiscountApplyType != model.ApplyTypeSpecific {
			errs = append(errs, model.FieldError{Field: "discountApplyType", Message: "must be ALL or SPECIFIC"})
		}
		applyType = *req.DiscountApplyType
	}

	if applyType == model.ApplyTypeSpecific {
		products := existing.ProductIDs
		if req.ProductIDs != nil {
			products = req.ProductIDs
		}
		categories := existing.CategoryIDs
		if req.CategoryIDs != nil {
			categories = req.CategoryIDs
		}
		brands := existing.BrandIDs
		if req.BrandIDs != nil {
			brands = req.BrandIDs
		}
		if len(products) == 0 && len(categories) == 0 && len(brands) == 0 {
			errs = append(errs, model.FieldError{Field: "discountApplyType", Message: "SPECIFIC requires at least one product, category or brand"})
		}
	}

	return errs
}

func validVoucherType(t model.VoucherType) bool {
	switch t {
	case model.VoucherTypePlatform, model.VoucherTypeShop, model.VoucherTypeProduct,
		model.VoucherTypeCategory, model.VoucherTypeBrand:
		return true
	}
	return false
}
