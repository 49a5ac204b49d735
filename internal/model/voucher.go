package model

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType determines how a voucher's value is interpreted.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixAmount  DiscountType = "FIX_AMOUNT"
)

// VoucherType determines which scope of the marketplace a voucher targets.
type VoucherType string

const (
	VoucherTypePlatform VoucherType = "PLATFORM"
	VoucherTypeShop     VoucherType = "SHOP"
	VoucherTypeProduct  VoucherType = "PRODUCT"
	VoucherTypeCategory VoucherType = "CATEGORY"
	VoucherTypeBrand    VoucherType = "BRAND"
)

// DisplayType determines whether a voucher shows up in public listings.
type DisplayType string

const (
	DisplayTypePublic  DisplayType = "PUBLIC"
	DisplayTypePrivate DisplayType = "PRIVATE"
)

// ApplyType determines whether a voucher applies to the whole scope or only
// to an explicit set of products/categories/brands.
type ApplyType string

const (
	ApplyTypeAll      ApplyType = "ALL"
	ApplyTypeSpecific ApplyType = "SPECIFIC"
)

// VoucherStatus is the administrative on/off switch for a voucher.
type VoucherStatus string

const (
	VoucherStatusActive   VoucherStatus = "ACTIVE"
	VoucherStatusInactive VoucherStatus = "INACTIVE"
)

// Role identifies the kind of acting user.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleSeller Role = "SELLER"
)

// UseCase is a derived classification of a voucher describing which
// ownership/applicability scenario it belongs to. It is recomputed from
// stored attributes plus the acting role and never persisted.
type UseCase string

const (
	UseCaseShop         UseCase = "SHOP"
	UseCaseProduct      UseCase = "PRODUCT"
	UseCasePrivate      UseCase = "PRIVATE"
	UseCasePlatform     UseCase = "PLATFORM"
	UseCaseCategories   UseCase = "CATEGORIES"
	UseCaseBrand        UseCase = "BRAND"
	UseCaseShopAdmin    UseCase = "SHOP_ADMIN"
	UseCaseProductAdmin UseCase = "PRODUCT_ADMIN"
	UseCasePrivateAdmin UseCase = "PRIVATE_ADMIN"
)

// Voucher represents a promotional discount rule.
// Monetary fields (Value for FIX_AMOUNT, MaxDiscountValue, MinOrderValue)
// are integers in the smallest currency unit.
type Voucher struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`

	DiscountType     DiscountType `json:"discountType" db:"discount_type"`
	Value            int64        `json:"value" db:"value"`
	MaxDiscountValue *int64       `json:"maxDiscountValue,omitempty" db:"max_discount_value"`
	MinOrderValue    int64        `json:"minOrderValue" db:"min_order_value"`

	MaxUses        int `json:"maxUses" db:"max_uses"`
	MaxUsesPerUser int `json:"maxUsesPerUser" db:"max_uses_per_user"`
	UsesCount      int `json:"usesCount" db:"uses_count"`

	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`

	IsPlatform  bool        `json:"isPlatform" db:"is_platform"`
	ShopID      *uuid.UUID  `json:"shopId,omitempty" db:"shop_id"`
	VoucherType VoucherType `json:"voucherType" db:"voucher_type"`

	DisplayType       DisplayType   `json:"displayType" db:"display_type"`
	DiscountApplyType ApplyType     `json:"discountApplyType" db:"discount_apply_type"`
	DiscountStatus    VoucherStatus `json:"discountStatus" db:"discount_status"`

	ProductIDs  []string `json:"productIds,omitempty"`
	CategoryIDs []string `json:"categoryIds,omitempty"`
	BrandIDs    []string `json:"brandIds,omitempty"`

	CreatedByID uuid.UUID  `json:"createdById" db:"created_by_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// IsExhausted reports whether a bounded voucher has used up all redemptions.
// MaxUses == 0 means the voucher is unlimited.
func (v *Voucher) IsExhausted() bool {
	return v.MaxUses > 0 && v.UsesCount >= v.MaxUses
}

// InWindow reports whether now falls inside the voucher's validity window.
func (v *Voucher) InWindow(now time.Time) bool {
	return !now.Before(v.StartDate) && !now.After(v.EndDate)
}

// Actor identifies the authenticated user performing a request.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the actor holds the platform admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
