package model

import "time"

// Stable machine-checkable reasons for a failed code validation. These are
// business outcomes, not errors; they travel inside ValidationResult.
const (
	RedemptionErrCodeNotFound  = "CODE_NOT_FOUND"
	RedemptionErrInactive      = "INACTIVE"
	RedemptionErrOutOfDate     = "OUT_OF_DATE"
	RedemptionErrExhausted     = "EXHAUSTED"
	RedemptionErrBelowMinimum  = "BELOW_MINIMUM"
	RedemptionErrNotApplicable = "NOT_APPLICABLE"
)

// ValidationResult is the outcome of validating a voucher code against a
// cart. On success all value fields are populated; on failure only IsValid,
// ErrorKind and Error are set.
type ValidationResult struct {
	IsValid         bool     `json:"isValid"`
	Discount        *Voucher `json:"discount,omitempty"`
	DiscountAmount  int64    `json:"discountAmount,omitempty"`
	FinalOrderTotal int64    `json:"finalOrderTotal,omitempty"`
	ErrorKind       string   `json:"errorKind,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// ValidateCodeRequest is the request payload for POST /discounts/validate-code.
type ValidateCodeRequest struct {
	Code        string   `json:"code"`
	CartItemIDs []string `json:"cartItemIds,omitempty"`
}

// CreateVoucherRequest is the request payload for creating a voucher.
type CreateVoucherRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`

	DiscountType     DiscountType `json:"discountType"`
	Value            int64        `json:"value"`
	MaxDiscountValue *int64       `json:"maxDiscountValue,omitempty"`
	MinOrderValue    int64        `json:"minOrderValue"`

	MaxUses        int `json:"maxUses"`
	MaxUsesPerUser int `json:"maxUsesPerUser"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	IsPlatform  bool        `json:"isPlatform"`
	ShopID      *string     `json:"shopId,omitempty"`
	VoucherType VoucherType `json:"voucherType"`

	DisplayType       DisplayType `json:"displayType"`
	DiscountApplyType ApplyType   `json:"discountApplyType"`

	ProductIDs  []string `json:"productIds,omitempty"`
	CategoryIDs []string `json:"categoryIds,omitempty"`
	BrandIDs    []string `json:"brandIds,omitempty"`
}

// UpdateVoucherRequest is the request payload for updating a voucher.
// Monetary rule fields and the code are immutable after creation and are
// deliberately absent here; MaxUses, the window, status, display and
// applicability relations remain editable.
type UpdateVoucherRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`

	MaxUses *int `json:"maxUses,omitempty"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	DisplayType       *DisplayType   `json:"displayType,omitempty"`
	DiscountApplyType *ApplyType     `json:"discountApplyType,omitempty"`
	DiscountStatus    *VoucherStatus `json:"discountStatus,omitempty"`

	ProductIDs  []string `json:"productIds,omitempty"`
	CategoryIDs []string `json:"categoryIds,omitempty"`
	BrandIDs    []string `json:"brandIds,omitempty"`
}

// ListVouchersQuery captures the filters for the admin/shop listing.
type ListVouchersQuery struct {
	Page        int
	Limit       int
	CreatedByID string
	Status      VoucherStatus
	VoucherType VoucherType
}

// PaginationMetadata describes one page of a paginated listing.
type PaginationMetadata struct {
	TotalItems int  `json:"totalItems"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPaginationMetadata computes paging metadata from a total row count.
func NewPaginationMetadata(totalItems, page, limit int) PaginationMetadata {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}
	return PaginationMetadata{
		TotalItems: totalItems,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && totalItems > 0,
	}
}

// VoucherDetail is a voucher together with its derived use case, as served
// by the management read endpoints.
type VoucherDetail struct {
	Voucher *Voucher `json:"voucher"`
	UseCase UseCase  `json:"useCase"`
}

// PaginatedVouchers is the response payload of the listing endpoint.
type PaginatedVouchers struct {
	Data     []Voucher          `json:"data"`
	Metadata PaginationMetadata `json:"metadata"`
}
