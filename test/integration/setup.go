package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shopsifu-discount/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS vouchers (
			id UUID PRIMARY KEY,
			code VARCHAR(5) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			discount_type VARCHAR(20) NOT NULL,
			value BIGINT NOT NULL,
			max_discount_value BIGINT,
			min_order_value BIGINT NOT NULL DEFAULT 0,
			max_uses INTEGER NOT NULL DEFAULT 0,
			max_uses_per_user INTEGER NOT NULL DEFAULT 0,
			uses_count INTEGER NOT NULL DEFAULT 0,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			is_platform BOOLEAN NOT NULL DEFAULT FALSE,
			shop_id UUID,
			voucher_type VARCHAR(20) NOT NULL,
			display_type VARCHAR(20) NOT NULL,
			discount_apply_type VARCHAR(20) NOT NULL,
			discount_status VARCHAR(20) NOT NULL,
			created_by_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS voucher_products (
			voucher_id UUID NOT NULL REFERENCES vouchers(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL,
			PRIMARY KEY (voucher_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS voucher_categories (
			voucher_id UUID NOT NULL REFERENCES vouchers(id) ON DELETE CASCADE,
			category_id VARCHAR(50) NOT NULL,
			PRIMARY KEY (voucher_id, category_id)
		);

		CREATE TABLE IF NOT EXISTS voucher_brands (
			voucher_id UUID NOT NULL REFERENCES vouchers(id) ON DELETE CASCADE,
			brand_id VARCHAR(50) NOT NULL,
			PRIMARY KEY (voucher_id, brand_id)
		);

		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			shop_id UUID,
			category_id VARCHAR(50),
			brand_id VARCHAR(50),
			price BIGINT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id VARCHAR(50) PRIMARY KEY,
			product_id VARCHAR(50) NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0)
		);

		CREATE INDEX IF NOT EXISTS idx_vouchers_code ON vouchers(code);
		CREATE INDEX IF NOT EXISTS idx_vouchers_created_by ON vouchers(created_by_id);
		CREATE INDEX IF NOT EXISTS idx_cart_items_product_id ON cart_items(product_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// TestShopID is the shop owning the seeded products.
var TestShopID = uuid.MustParse("7b0e8b1a-4f6e-4a3e-9f1a-1c2d3e4f5a6b")

// TestSellerID is the seller owning the seeded vouchers.
var TestSellerID = uuid.MustParse("7b0e8b1a-4f6e-4a3e-9f1a-1c2d3e4f5a6b")

// NewTestVoucher builds a live percentage voucher owned by TestSellerID.
// Callers mutate the returned value before inserting it.
func NewTestVoucher(code string) *model.Voucher {
	now := time.Now()
	return &model.Voucher{
		ID:                uuid.New(),
		Code:              code,
		Name:              "Test voucher " + code,
		DiscountType:      model.DiscountTypePercentage,
		Value:             10,
		MaxUses:           100,
		MaxUsesPerUser:    2,
		StartDate:         now.Add(-time.Hour),
		EndDate:           now.Add(24 * time.Hour),
		VoucherType:       model.VoucherTypeShop,
		DisplayType:       model.DisplayTypePublic,
		DiscountApplyType: model.ApplyTypeAll,
		DiscountStatus:    model.VoucherStatusActive,
		CreatedByID:       TestSellerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// SeedCart inserts the test products and cart items used by the
// cart-resolving tests. Cart ci1+ci2 totals 250000 across two categories.
func SeedCart(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       string
		category string
		brand    string
		price    int64
	}{
		{"p1", "cat-electronics", "brand-acme", 100000},
		{"p2", "cat-fashion", "brand-zen", 50000},
		{"p3", "cat-electronics", "brand-zen", 75000},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, shop_id, category_id, brand_id, price) VALUES ($1, $2, $3, $4, $5)",
			p.id, TestShopID, p.category, p.brand, p.price,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}

	cartItems := []struct {
		id        string
		productID string
		quantity  int
	}{
		{"ci1", "p1", 2}, // 200000
		{"ci2", "p2", 1}, // 50000
		{"ci3", "p3", 1}, // 75000
	}

	for _, ci := range cartItems {
		_, err := pool.Exec(ctx,
			"INSERT INTO cart_items (id, product_id, quantity) VALUES ($1, $2, $3)",
			ci.id, ci.productID, ci.quantity,
		)
		if err != nil {
			t.Fatalf("failed to seed cart item %s: %v", ci.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"voucher_products", "voucher_categories", "voucher_brands", "vouchers", "cart_items", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
