package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"shopsifu-discount/internal/model"
	"shopsifu-discount/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewVoucherRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Create and GetByID round-trips a voucher with links", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		v := NewTestVoucher("LNK1")
		v.DiscountApplyType = model.ApplyTypeSpecific
		v.ProductIDs = []string{"p1", "p2"}

		require.NoError(t, repo.Create(ctx, v))

		got, err := repo.GetByID(ctx, v.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "LNK1", got.Code)
		assert.Equal(t, []string{"p1", "p2"}, got.ProductIDs)
		assert.Empty(t, got.CategoryIDs)
	})

	t.Run("Create rejects a duplicate code", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		require.NoError(t, repo.Create(ctx, NewTestVoucher("DUP1")))

		err := repo.Create(ctx, NewTestVoucher("DUP1"))
		assert.ErrorIs(t, err, model.ErrDuplicateCode)
	})

	t.Run("GetByCode finds a live voucher", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		v := NewTestVoucher("BYC1")
		require.NoError(t, repo.Create(ctx, v))

		got, err := repo.GetByCode(ctx, "BYC1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, v.ID, got.ID)
	})

	t.Run("GetByCode returns nil for an unknown code", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		got, err := repo.GetByCode(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("List filters by creator and paginates", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		otherSeller := uuid.New()
		for i, code := range []string{"LS1", "LS2", "LS3"} {
			v := NewTestVoucher(code)
			v.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
			require.NoError(t, repo.Create(ctx, v))
		}
		foreign := NewTestVoucher("LS4")
		foreign.CreatedByID = otherSeller
		require.NoError(t, repo.Create(ctx, foreign))

		vouchers, total, err := repo.List(ctx, repository.ListFilter{
			CreatedByID: &TestSellerID,
			Limit:       2,
			Offset:      0,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, vouchers, 2)
		// Newest first.
		assert.Equal(t, "LS3", vouchers[0].Code)

		vouchers, total, err = repo.List(ctx, repository.ListFilter{
			CreatedByID: &TestSellerID,
			Limit:       2,
			Offset:      2,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, vouchers, 1)
	})

	t.Run("List filters by status", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		active := NewTestVoucher("ACT1")
		require.NoError(t, repo.Create(ctx, active))

		inactive := NewTestVoucher("INA1")
		inactive.DiscountStatus = model.VoucherStatusInactive
		require.NoError(t, repo.Create(ctx, inactive))

		vouchers, total, err := repo.List(ctx, repository.ListFilter{
			Status: model.VoucherStatusInactive,
			Limit:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, vouchers, 1)
		assert.Equal(t, "INA1", vouchers[0].Code)
	})

	t.Run("Update replaces mutable fields and links", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		v := NewTestVoucher("UPD1")
		v.DiscountApplyType = model.ApplyTypeSpecific
		v.ProductIDs = []string{"p1"}
		require.NoError(t, repo.Create(ctx, v))

		v.Name = "Renamed"
		v.ProductIDs = []string{"p2", "p3"}
		require.NoError(t, repo.Update(ctx, v))

		got, err := repo.GetByID(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, []string{"p2", "p3"}, got.ProductIDs)
	})

	t.Run("Update of a missing voucher reports not found", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		v := NewTestVoucher("GHST")
		err := repo.Update(ctx, v)
		assert.ErrorIs(t, err, model.ErrVoucherNotFound)
	})

	t.Run("SoftDelete hides the voucher from reads", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		v := NewTestVoucher("DEL1")
		require.NoError(t, repo.Create(ctx, v))

		deleted, err := repo.SoftDelete(ctx, v.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err := repo.GetByID(ctx, v.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.GetByCode(ctx, "DEL1")
		require.NoError(t, err)
		assert.Nil(t, got)

		// A second soft delete finds nothing live.
		deleted, err = repo.SoftDelete(ctx, v.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("HardDelete removes the row and its links", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		v := NewTestVoucher("HRD1")
		v.DiscountApplyType = model.ApplyTypeSpecific
		v.BrandIDs = []string{"brand-acme"}
		require.NoError(t, repo.Create(ctx, v))

		deleted, err := repo.HardDelete(ctx, v.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		var count int
		err = testDB.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM voucher_brands WHERE voucher_id = $1", v.ID).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("FindAvailable applies the coarse predicate", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		live := NewTestVoucher("LIVE1")
		require.NoError(t, repo.Create(ctx, live))

		expired := NewTestVoucher("EXP1")
		expired.StartDate = time.Now().Add(-48 * time.Hour)
		expired.EndDate = time.Now().Add(-24 * time.Hour)
		require.NoError(t, repo.Create(ctx, expired))

		inactive := NewTestVoucher("OFF1")
		inactive.DiscountStatus = model.VoucherStatusInactive
		require.NoError(t, repo.Create(ctx, inactive))

		hidden := NewTestVoucher("HID1")
		hidden.DisplayType = model.DisplayTypePrivate
		require.NoError(t, repo.Create(ctx, hidden))

		highFloor := NewTestVoucher("FLR1")
		highFloor.MinOrderValue = 500000
		require.NoError(t, repo.Create(ctx, highFloor))

		vouchers, err := repo.FindAvailable(ctx, repository.AvailableFilter{
			Now:        time.Now(),
			OrderTotal: 250000,
			Limit:      10,
		})
		require.NoError(t, err)
		require.Len(t, vouchers, 1)
		assert.Equal(t, "LIVE1", vouchers[0].Code)
	})

	t.Run("FindAvailable scopes to shop or platform", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		platform := NewTestVoucher("PLT1")
		platform.IsPlatform = true
		platform.VoucherType = model.VoucherTypePlatform
		require.NoError(t, repo.Create(ctx, platform))

		ownShop := NewTestVoucher("OWN1")
		ownShop.ShopID = &TestShopID
		require.NoError(t, repo.Create(ctx, ownShop))

		otherShopID := uuid.New()
		otherShop := NewTestVoucher("OTH1")
		otherShop.ShopID = &otherShopID
		require.NoError(t, repo.Create(ctx, otherShop))

		shopOnly, err := repo.FindAvailable(ctx, repository.AvailableFilter{
			Now:      time.Now(),
			OnlyShop: true,
			ShopID:   &TestShopID,
			Limit:    10,
		})
		require.NoError(t, err)
		require.Len(t, shopOnly, 1)
		assert.Equal(t, "OWN1", shopOnly[0].Code)

		platformOnly, err := repo.FindAvailable(ctx, repository.AvailableFilter{
			Now:          time.Now(),
			OnlyPlatform: true,
			Limit:        10,
		})
		require.NoError(t, err)
		require.Len(t, platformOnly, 1)
		assert.Equal(t, "PLT1", platformOnly[0].Code)
	})

	t.Run("ConsumeUse increments until the cap", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		v := NewTestVoucher("CAP1")
		v.MaxUses = 2
		require.NoError(t, repo.Create(ctx, v))

		for i := 0; i < 2; i++ {
			ok, err := repo.ConsumeUse(ctx, v.ID)
			require.NoError(t, err)
			assert.True(t, ok, "redemption %d", i+1)
		}

		ok, err := repo.ConsumeUse(ctx, v.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.GetByID(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.UsesCount)
	})

	t.Run("ConsumeUse never exceeds the cap under concurrency", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		v := NewTestVoucher("RACE1")
		v.MaxUses = 5
		require.NoError(t, repo.Create(ctx, v))

		const attempts = 20
		var wg sync.WaitGroup
		results := make(chan bool, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.ConsumeUse(ctx, v.ID)
				assert.NoError(t, err)
				results <- ok
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for ok := range results {
			if ok {
				succeeded++
			}
		}
		assert.Equal(t, 5, succeeded)

		got, err := repo.GetByID(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.UsesCount)
	})

	t.Run("ConsumeUse with unlimited cap never refuses", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		v := NewTestVoucher("UNL1")
		v.MaxUses = 0
		require.NoError(t, repo.Create(ctx, v))

		for i := 0; i < 10; i++ {
			ok, err := repo.ConsumeUse(ctx, v.ID)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})
}

func TestCartResolver_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	resolver := repository.NewCartResolver(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Resolve aggregates totals and dedupes attributes", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCart(t, testDB.Pool)

		snapshot, err := resolver.Resolve(ctx, []string{"ci1", "ci2", "ci3"})
		require.NoError(t, err)

		// 2*100000 + 1*50000 + 1*75000
		assert.Equal(t, int64(325000), snapshot.OrderTotal)
		require.NotNil(t, snapshot.ShopID)
		assert.Equal(t, TestShopID, *snapshot.ShopID)
		assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, snapshot.ProductIDs)
		assert.ElementsMatch(t, []string{"cat-electronics", "cat-fashion"}, snapshot.CategoryIDs)
		assert.ElementsMatch(t, []string{"brand-acme", "brand-zen"}, snapshot.BrandIDs)
	})

	t.Run("Resolve skips unknown cart item ids", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCart(t, testDB.Pool)

		snapshot, err := resolver.Resolve(ctx, []string{"ci1", "missing"})
		require.NoError(t, err)
		assert.Equal(t, int64(200000), snapshot.OrderTotal)
		assert.Equal(t, []string{"p1"}, snapshot.ProductIDs)
	})

	t.Run("Resolve with no ids yields an empty snapshot", func(t *testing.T) {
		snapshot, err := resolver.Resolve(ctx, nil)
		require.NoError(t, err)
		assert.True(t, snapshot.IsEmpty())
	})
}
