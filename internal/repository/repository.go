package repository

import (
	"context"
	"time"

	"shopsifu-discount/internal/model"

	"github.com/google/uuid"
)

// ListFilter narrows the paginated management listing.
type ListFilter struct {
	CreatedByID *uuid.UUID
	Status      model.VoucherStatus
	VoucherType model.VoucherType
	Limit       int
	Offset      int
}

// AvailableFilter is the coarse storage predicate of the eligibility
// filter. The fine cart-intersection check happens in-process because it
// cannot be expressed as a simple indexable query.
type AvailableFilter struct {
	Now          time.Time
	OnlyShop     bool
	OnlyPlatform bool
	ShopID       *uuid.UUID
	OrderTotal   int64
	Limit        int
}

// VoucherRepository defines the interface for voucher data access.
// Every read applies the soft-delete filter; hard deletion is a separate,
// rarely invoked operation.
type VoucherRepository interface {
	// Create inserts a voucher and its applicability links.
	// A duplicate code yields model.ErrDuplicateCode.
	Create(ctx context.Context, v *model.Voucher) error

	// GetByID retrieves a live voucher by id, or nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error)

	// GetByCode retrieves a live voucher by code, or nil when not found.
	GetByCode(ctx context.Context, code string) (*model.Voucher, error)

	// List retrieves a page of live vouchers plus the total match count.
	List(ctx context.Context, filter ListFilter) ([]model.Voucher, int, error)

	// Update persists the mutable fields and replaces the applicability links.
	Update(ctx context.Context, v *model.Voucher) error

	// SoftDelete marks a voucher deleted. Returns false when no live
	// voucher matched.
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)

	// HardDelete permanently removes a voucher and its links.
	HardDelete(ctx context.Context, id uuid.UUID) (bool, error)

	// FindAvailable retrieves candidate vouchers matching the coarse
	// eligibility predicate, newest first.
	FindAvailable(ctx context.Context, filter AvailableFilter) ([]model.Voucher, error)

	// ConsumeUse atomically increments uses_count when the cap allows it.
	// Returns false when the voucher is missing or exhausted. Intended for
	// the checkout transaction at redemption time.
	ConsumeUse(ctx context.Context, id uuid.UUID) (bool, error)
}

// CartResolver maps a set of cart-item ids to an ephemeral snapshot of the
// cart: total value, owning shop and the contained product/category/brand
// ids.
type CartResolver interface {
	Resolve(ctx context.Context, cartItemIDs []string) (*model.CartSnapshot, error)
}
