package service

import (
	"context"

	"shopsifu-discount/internal/model"

	"github.com/google/uuid"
)

// AvailableQuery captures the parameters of a public availability listing.
type AvailableQuery struct {
	CartItemIDs  []string
	Limit        int
	OnlyShop     bool
	OnlyPlatform bool
}

// CheckoutService defines the shopper-facing voucher operations. Both are
// read-only; redemption itself happens in the checkout transaction.
type CheckoutService interface {
	// ListAvailable returns the currently valid, not-exhausted vouchers a
	// shopper could apply, optionally intersected with a cart.
	ListAvailable(ctx context.Context, q AvailableQuery) ([]model.Voucher, error)

	// ValidateCode performs the full validity check of one voucher code
	// against a cart and computes the discount. Business invalidity is a
	// result, never an error.
	ValidateCode(ctx context.Context, code string, cartItemIDs []string) (*model.ValidationResult, error)
}

// VoucherService defines the management operations over vouchers, all
// gated by the authorization guard.
type VoucherService interface {
	// Create validates and persists a new voucher for the actor.
	Create(ctx context.Context, actor model.Actor, req *model.CreateVoucherRequest) (*model.VoucherDetail, error)

	// GetByID retrieves a voucher the actor may access.
	GetByID(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.VoucherDetail, error)

	// List retrieves a page of vouchers scoped to the actor.
	List(ctx context.Context, actor model.Actor, q model.ListVouchersQuery) (*model.PaginatedVouchers, error)

	// Update applies the mutable fields of a voucher the actor may access.
	Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateVoucherRequest) (*model.VoucherDetail, error)

	// Delete soft-deletes a voucher; hard permanently removes it instead.
	Delete(ctx context.Context, actor model.Actor, id uuid.UUID, hard bool) error
}
