package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shopsifu-discount/internal/cache"
	"shopsifu-discount/internal/model"
	"shopsifu-discount/internal/repository"
	"shopsifu-discount/internal/voucher"

	"github.com/rs/zerolog"
)

const (
	defaultAvailableLimit = 10
	maxAvailableLimit     = 50

	// Short on purpose: a cached voucher carries a possibly stale
	// uses_count, and the atomic consume at redemption time is the real
	// cap enforcement.
	codeCacheTTL = 30 * time.Second
)

func codeCacheKey(code string) string {
	return "voucher:code:" + code
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	repo     repository.VoucherRepository
	resolver repository.CartResolver
	cache    cache.Cache
	logger   zerolog.Logger
}

// NewCheckoutService creates a new checkout-facing voucher service.
func NewCheckoutService(
	repo repository.VoucherRepository,
	resolver repository.CartResolver,
	c cache.Cache,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		repo:     repo,
		resolver: resolver,
		cache:    c,
		logger:   logger.With().Str("service", "checkout").Logger(),
	}
}

// ListAvailable returns the currently valid, not-exhausted vouchers a
// shopper could apply. Two phases: a coarse storage predicate, then the
// in-process fine filter against the resolved cart contents.
func (s *checkoutService) ListAvailable(ctx context.Context, q AvailableQuery) ([]model.Voucher, error) {
	limit := q.Limit
	if limit < 1 {
		limit = defaultAvailableLimit
	}
	if limit > maxAvailableLimit {
		limit = maxAvailableLimit
	}

	hasCart := len(q.CartItemIDs) > 0
	snapshot, err := s.resolver.Resolve(ctx, q.CartItemIDs)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.FindAvailable(ctx, repository.AvailableFilter{
		Now:          time.Now(),
		OnlyShop:     q.OnlyShop,
		OnlyPlatform: q.OnlyPlatform,
		ShopID:       snapshot.ShopID,
		OrderTotal:   snapshot.OrderTotal,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	eligible := voucher.FilterEligible(candidates, snapshot, hasCart)

	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("eligible", len(eligible)).
		Bool("has_cart", hasCart).
		Msg("available vouchers listed")

	return eligible, nil
}

// ValidateCode performs the full validity check of one voucher code against
// a cart. An unknown or invalid code is a business outcome; only storage
// failures are returned as errors.
func (s *checkoutService) ValidateCode(ctx context.Context, code string, cartItemIDs []string) (*model.ValidationResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	v, err := s.lookupCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if v == nil {
		s.logger.Debug().Str("code", code).Msg("voucher code not found")
		return &model.ValidationResult{
			IsValid:   false,
			ErrorKind: model.RedemptionErrCodeNotFound,
			Error:     "Voucher code not found",
		}, nil
	}

	snapshot, err := s.resolver.Resolve(ctx, cartItemIDs)
	if err != nil {
		return nil, err
	}

	result := voucher.Evaluate(v, snapshot, time.Now())

	if result.IsValid {
		s.logger.Debug().
			Str("code", code).
			Int64("discount_amount", result.DiscountAmount).
			Msg("voucher code validated")
	} else {
		s.logger.Debug().
			Str("code", code).
			Str("reason", result.ErrorKind).
			Msg("voucher code rejected")
	}

	return &result, nil
}

// lookupCode reads a voucher by code through the cache. Cache failures fall
// back to the repository; only the repository decides existence.
func (s *checkoutService) lookupCode(ctx context.Context, code string) (*model.Voucher, error) {
	var cached model.Voucher
	err := cache.GetJSON(ctx, s.cache, codeCacheKey(code), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		s.logger.Warn().Err(err).Str("code", code).Msg("voucher cache read failed")
	}

	v, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	if err := cache.SetJSON(ctx, s.cache, codeCacheKey(code), v, codeCacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("voucher cache write failed")
	}

	return v, nil
}
