package service

import (
	"context"
	"time"

	"shopsifu-discount/internal/auth"
	"shopsifu-discount/internal/cache"
	"shopsifu-discount/internal/model"
	"shopsifu-discount/internal/repository"
	"shopsifu-discount/internal/validation"
	"shopsifu-discount/internal/voucher"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// voucherService implements VoucherService.
type voucherService struct {
	repo   repository.VoucherRepository
	cache  cache.Cache
	logger zerolog.Logger
}

// NewVoucherService creates a new voucher management service.
func NewVoucherService(repo repository.VoucherRepository, c cache.Cache, logger zerolog.Logger) VoucherService {
	return &voucherService{
		repo:   repo,
		cache:  c,
		logger: logger.With().Str("service", "voucher").Logger(),
	}
}

// Create validates and persists a new voucher for the actor.
func (s *voucherService) Create(ctx context.Context, actor model.Actor, req *model.CreateVoucherRequest) (*model.VoucherDetail, error) {
	if errs := validation.ValidateCreate(req); len(errs) > 0 {
		s.logger.Warn().Int("errors", len(errs)).Msg("voucher creation rejected by validation")
		return nil, errs
	}

	var shopID *uuid.UUID
	if req.ShopID != nil {
		id, err := uuid.Parse(*req.ShopID)
		if err != nil {
			return nil, model.ValidationErrors{{Field: "shopId", Message: "must be a valid uuid"}}
		}
		shopID = &id
	}

	if !auth.CanSetOwnership(actor.ID, actor.Role, shopID) {
		s.logger.Warn().
			Str("actor_id", actor.ID.String()).
			Msg("actor may not set voucher ownership")
		return nil, model.ErrForbidden
	}

	// A shop owner creating a shop voucher without naming the shop gets
	// their own.
	if shopID == nil && !actor.IsAdmin() && !req.IsPlatform {
		id := actor.ID
		shopID = &id
	}

	now := time.Now()
	v := &model.Voucher{
		ID:                uuid.New(),
		Code:              req.Code,
		Name:              req.Name,
		Description:       req.Description,
		DiscountType:      req.DiscountType,
		Value:             req.Value,
		MaxDiscountValue:  req.MaxDiscountValue,
		MinOrderValue:     req.MinOrderValue,
		MaxUses:           req.MaxUses,
		MaxUsesPerUser:    req.MaxUsesPerUser,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		IsPlatform:        req.IsPlatform,
		ShopID:            shopID,
		VoucherType:       req.VoucherType,
		DisplayType:       req.DisplayType,
		DiscountApplyType: req.DiscountApplyType,
		DiscountStatus:    model.VoucherStatusActive,
		ProductIDs:        req.ProductIDs,
		CategoryIDs:       req.CategoryIDs,
		BrandIDs:          req.BrandIDs,
		CreatedByID:       actor.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// The use case decides which optional relation sets the scenario
	// actually carries; the rest are dropped before persisting.
	useCase := voucher.Classify(v, actor.Role)
	trimRelations(v, useCase)
	if errs := checkSpecificTargets(v); len(errs) > 0 {
		s.logger.Warn().Str("code", v.Code).Msg("voucher creation rejected, targets do not match voucher type")
		return nil, errs
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("voucher_id", v.ID.String()).
		Str("code", v.Code).
		Str("use_case", string(useCase)).
		Msg("voucher created")

	return &model.VoucherDetail{Voucher: v, UseCase: useCase}, nil
}

// GetByID retrieves a voucher the actor may access.
func (s *voucherService) GetByID(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.VoucherDetail, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, model.ErrVoucherNotFound
	}

	if !auth.CanAccess(actor.ID, actor.Role, v.CreatedByID) {
		s.logger.Warn().
			Str("actor_id", actor.ID.String()).
			Str("voucher_id", id.String()).
			Msg("access to voucher denied")
		return nil, model.ErrForbidden
	}

	return &model.VoucherDetail{Voucher: v, UseCase: voucher.Classify(v, actor.Role)}, nil
}

// List retrieves a page of vouchers scoped to the actor. Non-admins must
// name themselves in the createdById filter.
func (s *voucherService) List(ctx context.Context, actor model.Actor, q model.ListVouchersQuery) (*model.PaginatedVouchers, error) {
	var createdByID *uuid.UUID
	if q.CreatedByID != "" {
		id, err := uuid.Parse(q.CreatedByID)
		if err != nil {
			return nil, model.ValidationErrors{{Field: "createdById", Message: "must be a valid uuid"}}
		}
		createdByID = &id
	}

	if !actor.IsAdmin() {
		if createdByID == nil || !auth.CanListFor(actor.ID, actor.Role, *createdByID) {
			s.logger.Warn().
				Str("actor_id", actor.ID.String()).
				Msg("listing denied: createdById filter missing or foreign")
			return nil, model.ErrForbidden
		}
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	vouchers, total, err := s.repo.List(ctx, repository.ListFilter{
		CreatedByID: createdByID,
		Status:      q.Status,
		VoucherType: q.VoucherType,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	if vouchers == nil {
		vouchers = []model.Voucher{}
	}

	return &model.PaginatedVouchers{
		Data:     vouchers,
		Metadata: model.NewPaginationMetadata(total, page, limit),
	}, nil
}

// Update applies the mutable fields of a voucher the actor may access.
// Code, monetary rule fields and maxUsesPerUser are immutable by business
// rule and not touched.
func (s *voucherService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateVoucherRequest) (*model.VoucherDetail, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, model.ErrVoucherNotFound
	}

	if !auth.CanAccess(actor.ID, actor.Role, v.CreatedByID) {
		return nil, model.ErrForbidden
	}

	if errs := validation.ValidateUpdate(v, req); len(errs) > 0 {
		s.logger.Warn().
			Str("voucher_id", id.String()).
			Int("errors", len(errs)).
			Msg("voucher update rejected by validation")
		return nil, errs
	}

	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.MaxUses != nil {
		v.MaxUses = *req.MaxUses
	}
	if req.StartDate != nil {
		v.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		v.EndDate = *req.EndDate
	}
	if req.DisplayType != nil {
		v.DisplayType = *req.DisplayType
	}
	if req.DiscountApplyType != nil {
		v.DiscountApplyType = *req.DiscountApplyType
	}
	if req.DiscountStatus != nil {
		v.DiscountStatus = *req.DiscountStatus
	}
	if req.ProductIDs != nil {
		v.ProductIDs = req.ProductIDs
	}
	if req.CategoryIDs != nil {
		v.CategoryIDs = req.CategoryIDs
	}
	if req.BrandIDs != nil {
		v.BrandIDs = req.BrandIDs
	}
	v.UpdatedAt = time.Now()

	useCase := voucher.Classify(v, actor.Role)
	trimRelations(v, useCase)
	if errs := checkSpecificTargets(v); len(errs) > 0 {
		s.logger.Warn().
			Str("voucher_id", v.ID.String()).
			Msg("voucher update rejected, targets do not match voucher type")
		return nil, errs
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	s.invalidateCode(ctx, v.Code)

	s.logger.Info().
		Str("voucher_id", v.ID.String()).
		Str("use_case", string(useCase)).
		Msg("voucher updated")

	return &model.VoucherDetail{Voucher: v, UseCase: useCase}, nil
}

// Delete soft-deletes a voucher by default; hard permanently removes it.
func (s *voucherService) Delete(ctx context.Context, actor model.Actor, id uuid.UUID, hard bool) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v == nil {
		return model.ErrVoucherNotFound
	}

	if !auth.CanAccess(actor.ID, actor.Role, v.CreatedByID) {
		return model.ErrForbidden
	}

	var deleted bool
	if hard {
		deleted, err = s.repo.HardDelete(ctx, id)
	} else {
		deleted, err = s.repo.SoftDelete(ctx, id)
	}
	if err != nil {
		return err
	}
	if !deleted {
		return model.ErrVoucherNotFound
	}

	s.invalidateCode(ctx, v.Code)

	s.logger.Info().
		Str("voucher_id", id.String()).
		Bool("hard", hard).
		Msg("voucher deleted")

	return nil
}

// invalidateCode drops the cached by-code entry after a mutation. A cache
// failure here only delays freshness, so it is logged and swallowed.
func (s *voucherService) invalidateCode(ctx context.Context, code string) {
	if err := s.cache.Delete(ctx, codeCacheKey(code)); err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("failed to invalidate voucher cache")
	}
}

// trimRelations drops the relation sets the derived use case does not
// carry, so e.g. a brand voucher never persists stray product links.
func trimRelations(v *model.Voucher, useCase model.UseCase) {
	switch useCase {
	case model.UseCaseCategories:
		v.ProductIDs = nil
		v.BrandIDs = nil
	case model.UseCaseBrand:
		v.ProductIDs = nil
		v.CategoryIDs = nil
	case model.UseCaseProduct, model.UseCaseProductAdmin:
		v.CategoryIDs = nil
		v.BrandIDs = nil
	}
}

// checkSpecificTargets rejects a SPECIFIC voucher whose relation sets ended
// up all empty after trimming. That happens when the only targets supplied
// contradict the voucher type, e.g. a CATEGORY voucher carrying nothing but
// product links; persisting it would list a voucher no cart can ever match.
func checkSpecificTargets(v *model.Voucher) model.ValidationErrors {
	if v.DiscountApplyType != model.ApplyTypeSpecific {
		return nil
	}
	if len(v.ProductIDs) > 0 || len(v.CategoryIDs) > 0 || len(v.BrandIDs) > 0 {
		return nil
	}
	return model.ValidationErrors{{
		Field:   "discountApplyType",
		Message: "SPECIFIC requires targets matching the voucher type",
	}}
}
