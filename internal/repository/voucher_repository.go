package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopsifu-discount/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const uniqueViolationCode = "23505"

const voucherColumns = `
	id, code, name, description,
	discount_type, value, max_discount_value, min_order_value,
	max_uses, max_uses_per_user, uses_count,
	start_date, end_date,
	is_platform, shop_id, voucher_type,
	display_type, discount_apply_type, discount_status,
	created_by_id, created_at, updated_at, deleted_at
`

// voucherRepository implements the VoucherRepository interface using PostgreSQL.
type voucherRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewVoucherRepository creates a new PostgreSQL-backed voucher repository.
func NewVoucherRepository(pool *pgxpool.Pool, logger zerolog.Logger) VoucherRepository {
	return &voucherRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "voucher").Logger(),
	}
}

// Create inserts a voucher and its applicability links in one transaction.
func (r *voucherRepository) Create(ctx context.Context, v *model.Voucher) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO vouchers (
			id, code, name, description,
			discount_type, value, max_discount_value, min_order_value,
			max_uses, max_uses_per_user, uses_count,
			start_date, end_date,
			is_platform, shop_id, voucher_type,
			display_type, discount_apply_type, discount_status,
			created_by_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
	`

	_, err = tx.Exec(ctx, query,
		v.ID, v.Code, v.Name, v.Description,
		v.DiscountType, v.Value, v.MaxDiscountValue, v.MinOrderValue,
		v.MaxUses, v.MaxUsesPerUser, v.UsesCount,
		v.StartDate, v.EndDate,
		v.IsPlatform, v.ShopID, v.VoucherType,
		v.DisplayType, v.DiscountApplyType, v.DiscountStatus,
		v.CreatedByID, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			r.logger.Warn().Str("code", v.Code).Msg("duplicate voucher code")
			return model.ErrDuplicateCode
		}
		r.logger.Error().Err(err).Str("voucher_id", v.ID.String()).Msg("failed to insert voucher")
		return fmt.Errorf("failed to insert voucher: %w", err)
	}

	if err := r.insertLinks(ctx, tx, v); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("voucher_id", v.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create voucher: %w", err)
	}

	r.logger.Debug().
		Str("voucher_id", v.ID.String()).
		Str("code", v.Code).
		Msg("voucher created")

	return nil
}

// GetByID retrieves a live voucher by id.
func (r *voucherRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers
		WHERE id = $1 AND deleted_at IS NULL
	`

	v, err := r.queryOne(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("voucher_id", id.String()).Msg("failed to query voucher")
		return nil, fmt.Errorf("failed to query voucher: %w", err)
	}
	return v, nil
}

// GetByCode retrieves a live voucher by code.
func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers
		WHERE code = $1 AND deleted_at IS NULL
	`

	v, err := r.queryOne(ctx, query, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query voucher by code")
		return nil, fmt.Errorf("failed to query voucher by code: %w", err)
	}
	return v, nil
}

// List retrieves a page of live vouchers plus the total match count.
func (r *voucherRepository) List(ctx context.Context, filter ListFilter) ([]model.Voucher, int, error) {
	where := "deleted_at IS NULL"
	args := []any{}
	arg := 1

	if filter.CreatedByID != nil {
		where += fmt.Sprintf(" AND created_by_id = $%d", arg)
		args = append(args, *filter.CreatedByID)
		arg++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND discount_status = $%d", arg)
		args = append(args, filter.Status)
		arg++
	}
	if filter.VoucherType != "" {
		where += fmt.Sprintf(" AND voucher_type = $%d", arg)
		args = append(args, filter.VoucherType)
		arg++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM vouchers WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count vouchers")
		return nil, 0, fmt.Errorf("failed to count vouchers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM vouchers
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, voucherColumns, where, arg, arg+1)
	args = append(args, filter.Limit, filter.Offset)

	vouchers, err := r.queryMany(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query vouchers")
		return nil, 0, fmt.Errorf("failed to query vouchers: %w", err)
	}

	return vouchers, total, nil
}

// Update persists the mutable fields and replaces the applicability links.
func (r *voucherRepository) Update(ctx context.Context, v *model.Voucher) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE vouchers
		SET name = $2, description = $3, max_uses = $4,
		    start_date = $5, end_date = $6,
		    display_type = $7, discount_apply_type = $8, discount_status = $9,
		    updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := tx.Exec(ctx, query,
		v.ID, v.Name, v.Description, v.MaxUses,
		v.StartDate, v.EndDate,
		v.DisplayType, v.DiscountApplyType, v.DiscountStatus,
		v.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("voucher_id", v.ID.String()).Msg("failed to update voucher")
		return fmt.Errorf("failed to update voucher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrVoucherNotFound
	}

	if err := r.deleteLinks(ctx, tx, v.ID); err != nil {
		return err
	}
	if err := r.insertLinks(ctx, tx, v); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("voucher_id", v.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to update voucher: %w", err)
	}

	return nil
}

// SoftDelete marks a voucher deleted without removing the row.
func (r *voucherRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE vouchers
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("voucher_id", id.String()).Msg("failed to soft-delete voucher")
		return false, fmt.Errorf("failed to soft-delete voucher: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// HardDelete permanently removes a voucher and its links.
func (r *voucherRepository) HardDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.deleteLinks(ctx, tx, id); err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM vouchers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("voucher_id", id.String()).Msg("failed to hard-delete voucher")
		return false, fmt.Errorf("failed to hard-delete voucher: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to hard-delete voucher: %w", err)
	}

	r.logger.Info().Str("voucher_id", id.String()).Msg("voucher hard-deleted")

	return tag.RowsAffected() > 0, nil
}

// FindAvailable retrieves candidate vouchers matching the coarse
// eligibility predicate: live, active, inside the validity window, publicly
// visible, in scope and above the minimum order floor. Usage caps and
// cart-content intersection are checked in-process by the caller.
func (r *voucherRepository) FindAvailable(ctx context.Context, filter AvailableFilter) ([]model.Voucher, error) {
	where := `
		deleted_at IS NULL
		AND discount_status = 'ACTIVE'
		AND display_type = 'PUBLIC'
		AND start_date <= $1 AND end_date >= $1
		AND (min_order_value = 0 OR min_order_value <= $2)
	`
	args := []any{filter.Now, filter.OrderTotal}
	arg := 3

	switch {
	case filter.OnlyShop && filter.ShopID != nil:
		where += fmt.Sprintf(" AND is_platform = FALSE AND (shop_id IS NULL OR shop_id = $%d)", arg)
		args = append(args, *filter.ShopID)
		arg++
	case filter.OnlyShop:
		where += " AND is_platform = FALSE AND shop_id IS NULL"
	case filter.OnlyPlatform:
		where += " AND is_platform = TRUE"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM vouchers
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d
	`, voucherColumns, where, arg)
	args = append(args, filter.Limit)

	vouchers, err := r.queryMany(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query available vouchers")
		return nil, fmt.Errorf("failed to query available vouchers: %w", err)
	}

	return vouchers, nil
}

// ConsumeUse atomically increments uses_count when the cap still allows a
// redemption. This is the single conditional update closing the
// check-then-increment race between concurrent redemptions.
func (r *voucherRepository) ConsumeUse(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE vouchers
		SET uses_count = uses_count + 1, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
		  AND (max_uses = 0 OR uses_count < max_uses)
	`

	tag, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("voucher_id", id.String()).Msg("failed to consume voucher use")
		return false, fmt.Errorf("failed to consume voucher use: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// queryOne runs a single-voucher query and loads its links.
// Returns nil without error when no row matched.
func (r *voucherRepository) queryOne(ctx context.Context, query string, args ...any) (*model.Voucher, error) {
	row := r.pool.QueryRow(ctx, query, args...)

	v, err := scanVoucher(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadLinks(ctx, []*model.Voucher{v}); err != nil {
		return nil, err
	}

	return v, nil
}

// queryMany runs a multi-voucher query and loads all links in one pass.
func (r *voucherRepository) queryMany(ctx context.Context, query string, args ...any) ([]model.Voucher, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []model.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voucher: %w", err)
		}
		vouchers = append(vouchers, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vouchers: %w", err)
	}

	refs := make([]*model.Voucher, len(vouchers))
	for i := range vouchers {
		refs[i] = &vouchers[i]
	}
	if err := r.loadLinks(ctx, refs); err != nil {
		return nil, err
	}

	return vouchers, nil
}

// scanVoucher scans one voucher row in voucherColumns order.
func scanVoucher(row pgx.Row) (*model.Voucher, error) {
	var v model.Voucher
	err := row.Scan(
		&v.ID, &v.Code, &v.Name, &v.Description,
		&v.DiscountType, &v.Value, &v.MaxDiscountValue, &v.MinOrderValue,
		&v.MaxUses, &v.MaxUsesPerUser, &v.UsesCount,
		&v.StartDate, &v.EndDate,
		&v.IsPlatform, &v.ShopID, &v.VoucherType,
		&v.DisplayType, &v.DiscountApplyType, &v.DiscountStatus,
		&v.CreatedByID, &v.CreatedAt, &v.UpdatedAt, &v.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// linkTables maps each applicability link table to its target column.
var linkTables = []struct {
	table  string
	column string
}{
	{"voucher_products", "product_id"},
	{"voucher_categories", "category_id"},
	{"voucher_brands", "brand_id"},
}

// loadLinks populates the product/category/brand id slices for a batch of
// vouchers with one query per link table.
func (r *voucherRepository) loadLinks(ctx context.Context, vouchers []*model.Voucher) error {
	if len(vouchers) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(vouchers))
	byID := make(map[uuid.UUID]*model.Voucher, len(vouchers))
	for i, v := range vouchers {
		ids[i] = v.ID
		byID[v.ID] = v
	}

	for _, lt := range linkTables {
		query := fmt.Sprintf(
			"SELECT voucher_id, %s FROM %s WHERE voucher_id = ANY($1) ORDER BY %s",
			lt.column, lt.table, lt.column,
		)

		rows, err := r.pool.Query(ctx, query, ids)
		if err != nil {
			r.logger.Error().Err(err).Str("table", lt.table).Msg("failed to query voucher links")
			return fmt.Errorf("failed to query %s: %w", lt.table, err)
		}

		err = func() error {
			defer rows.Close()
			for rows.Next() {
				var voucherID uuid.UUID
				var targetID string
				if err := rows.Scan(&voucherID, &targetID); err != nil {
					return fmt.Errorf("failed to scan %s link: %w", lt.table, err)
				}
				v := byID[voucherID]
				switch lt.table {
				case "voucher_products":
					v.ProductIDs = append(v.ProductIDs, targetID)
				case "voucher_categories":
					v.CategoryIDs = append(v.CategoryIDs, targetID)
				case "voucher_brands":
					v.BrandIDs = append(v.BrandIDs, targetID)
				}
			}
			return rows.Err()
		}()
		if err != nil {
			return err
		}
	}

	return nil
}

// insertLinks batch-inserts the applicability links of a voucher.
func (r *voucherRepository) insertLinks(ctx context.Context, tx pgx.Tx, v *model.Voucher) error {
	batch := &pgx.Batch{}

	for _, id := range v.ProductIDs {
		batch.Queue("INSERT INTO voucher_products (voucher_id, product_id) VALUES ($1, $2)", v.ID, id)
	}
	for _, id := range v.CategoryIDs {
		batch.Queue("INSERT INTO voucher_categories (voucher_id, category_id) VALUES ($1, $2)", v.ID, id)
	}
	for _, id := range v.BrandIDs {
		batch.Queue("INSERT INTO voucher_brands (voucher_id, brand_id) VALUES ($1, $2)", v.ID, id)
	}

	if batch.Len() == 0 {
		return nil
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Str("voucher_id", v.ID.String()).Msg("failed to insert voucher link")
			return fmt.Errorf("failed to insert voucher link: %w", err)
		}
	}

	return nil
}

// deleteLinks removes all applicability links of a voucher.
func (r *voucherRepository) deleteLinks(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	for _, lt := range linkTables {
		query := fmt.Sprintf("DELETE FROM %s WHERE voucher_id = $1", lt.table)
		if _, err := tx.Exec(ctx, query, id); err != nil {
			r.logger.Error().Err(err).Str("table", lt.table).Msg("failed to delete voucher links")
			return fmt.Errorf("failed to delete %s: %w", lt.table, err)
		}
	}
	return nil
}
