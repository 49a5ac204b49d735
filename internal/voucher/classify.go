package voucher

import "shopsifu-discount/internal/model"

// classifyRule pairs a predicate with the use case it selects.
type classifyRule struct {
	match  func(v *model.Voucher, role model.Role) bool
	result model.UseCase
}

// classifyRules is evaluated top to bottom and the first match wins. The
// ordering is load-bearing: the predicates overlap, e.g. a platform voucher
// may also carry categories and must still classify as PLATFORM.
var classifyRules = []classifyRule{
	{
		match: func(v *model.Voucher, _ model.Role) bool {
			return v.IsPlatform && v.VoucherType == model.VoucherTypePlatform
		},
		result: model.UseCasePlatform,
	},
	{
		match: func(v *model.Voucher, _ model.Role) bool {
			return v.VoucherType == model.VoucherTypeCategory || len(v.CategoryIDs) > 0
		},
		result: model.UseCaseCategories,
	},
	{
		match: func(v *model.Voucher, _ model.Role) bool {
			return v.VoucherType == model.VoucherTypeBrand || len(v.BrandIDs) > 0
		},
		result: model.UseCaseBrand,
	},
	{
		match: func(v *model.Voucher, role model.Role) bool {
			return role == model.RoleAdmin && v.ShopID != nil && v.VoucherType == model.VoucherTypeShop
		},
		result: model.UseCaseShopAdmin,
	},
	{
		match: func(v *model.Voucher, role model.Role) bool {
			return role == model.RoleAdmin && v.VoucherType == model.VoucherTypeProduct
		},
		result: model.UseCaseProductAdmin,
	},
	{
		match: func(v *model.Voucher, role model.Role) bool {
			return role == model.RoleAdmin && v.DisplayType == model.DisplayTypePrivate && v.ShopID == nil
		},
		result: model.UseCasePrivateAdmin,
	},
	{
		match: func(v *model.Voucher, _ model.Role) bool {
			return v.VoucherType == model.VoucherTypeProduct && len(v.ProductIDs) > 0
		},
		result: model.UseCaseProduct,
	},
	{
		match: func(v *model.Voucher, _ model.Role) bool {
			return v.DisplayType == model.DisplayTypePrivate
		},
		result: model.UseCasePrivate,
	},
}

// Classify derives the ownership/applicability scenario of a voucher from
// its stored attributes plus the acting role. The result is a read-time
// projection driving form and authorization behaviour; it is deterministic
// and never persisted.
func Classify(v *model.Voucher, role model.Role) model.UseCase {
	for _, rule := range classifyRules {
		if rule.match(v, role) {
			return rule.result
		}
	}
	return model.UseCaseShop
}
