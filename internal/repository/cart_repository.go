package repository

import (
	"context"
	"fmt"

	"shopsifu-discount/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartResolver implements the CartResolver interface using PostgreSQL.
type cartResolver struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartResolver creates a new PostgreSQL-backed cart resolver.
func NewCartResolver(pool *pgxpool.Pool, logger zerolog.Logger) CartResolver {
	return &cartResolver{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Resolve maps a set of cart-item ids to a snapshot of the cart. Unknown
// item ids are simply absent from the snapshot; an empty input yields an
// empty snapshot.
func (r *cartResolver) Resolve(ctx context.Context, cartItemIDs []string) (*model.CartSnapshot, error) {
	snapshot := &model.CartSnapshot{
		ProductIDs:  []string{},
		CategoryIDs: []string{},
		BrandIDs:    []string{},
	}

	if len(cartItemIDs) == 0 {
		return snapshot, nil
	}

	query := `
		SELECT p.id, p.shop_id, p.category_id, p.brand_id, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, cartItemIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(cartItemIDs)).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	seenProducts := make(map[string]struct{})
	seenCategories := make(map[string]struct{})
	seenBrands := make(map[string]struct{})

	for rows.Next() {
		var (
			productID  string
			shopID     *uuid.UUID
			categoryID *string
			brandID    *string
			price      int64
			quantity   int
		)
		if err := rows.Scan(&productID, &shopID, &categoryID, &brandID, &price, &quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		snapshot.OrderTotal += price * int64(quantity)

		if snapshot.ShopID == nil && shopID != nil {
			snapshot.ShopID = shopID
		}

		if _, ok := seenProducts[productID]; !ok {
			seenProducts[productID] = struct{}{}
			snapshot.ProductIDs = append(snapshot.ProductIDs, productID)
		}
		if categoryID != nil {
			if _, ok := seenCategories[*categoryID]; !ok {
				seenCategories[*categoryID] = struct{}{}
				snapshot.CategoryIDs = append(snapshot.CategoryIDs, *categoryID)
			}
		}
		if brandID != nil {
			if _, ok := seenBrands[*brandID]; !ok {
				seenBrands[*brandID] = struct{}{}
				snapshot.BrandIDs = append(snapshot.BrandIDs, *brandID)
			}
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	r.logger.Debug().
		Int("items", len(cartItemIDs)).
		Int64("order_total", snapshot.OrderTotal).
		Msg("cart snapshot resolved")

	return snapshot, nil
}
