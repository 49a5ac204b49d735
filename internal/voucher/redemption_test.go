package voucher

import (
	"testing"
	"time"

	"shopsifu-discount/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeVoucher(now time.Time) model.Voucher {
	return model.Voucher{
		Code:              "SAVE1",
		DiscountType:      model.DiscountTypeFixAmount,
		Value:             10000,
		DiscountStatus:    model.VoucherStatusActive,
		DiscountApplyType: model.ApplyTypeAll,
		StartDate:         now.Add(-time.Hour),
		EndDate:           now.Add(time.Hour),
	}
}

func TestEvaluate_PercentageWithCap(t *testing.T) {
	now := time.Now()
	cap := int64(50000)

	v := activeVoucher(now)
	v.DiscountType = model.DiscountTypePercentage
	v.Value = 20
	v.MaxDiscountValue = &cap
	v.MinOrderValue = 100000

	snapshot := &model.CartSnapshot{OrderTotal: 1000000}

	result := Evaluate(&v, snapshot, now)

	require.True(t, result.IsValid)
	assert.Equal(t, int64(50000), result.DiscountAmount)
	assert.Equal(t, int64(950000), result.FinalOrderTotal)
	assert.Equal(t, &v, result.Discount)
}

func TestEvaluate_PercentageWithoutCap(t *testing.T) {
	now := time.Now()

	v := activeVoucher(now)
	v.DiscountType = model.DiscountTypePercentage
	v.Value = 20

	result := Evaluate(&v, &model.CartSnapshot{OrderTotal: 1000000}, now)

	require.True(t, result.IsValid)
	assert.Equal(t, int64(200000), result.DiscountAmount)
	assert.Equal(t, int64(800000), result.FinalOrderTotal)
}

func TestEvaluate_BelowMinimumOrderValue(t *testing.T) {
	now := time.Now()

	v := activeVoucher(now)
	v.MinOrderValue = 100000

	result := Evaluate(&v, &model.CartSnapshot{OrderTotal: 50000}, now)

	require.False(t, result.IsValid)
	assert.Equal(t, model.RedemptionErrBelowMinimum, result.ErrorKind)
	assert.Contains(t, result.Error, "100.000")
	assert.Zero(t, result.DiscountAmount)
	assert.Zero(t, result.FinalOrderTotal)
	assert.Nil(t, result.Discount)
}

func TestEvaluate_FixAmountClampedToOrderTotal(t *testing.T) {
	now := time.Now()

	v := activeVoucher(now)
	v.Value = 30000

	result := Evaluate(&v, &model.CartSnapshot{OrderTotal: 20000}, now)

	require.True(t, result.IsValid)
	assert.Equal(t, int64(20000), result.DiscountAmount)
	assert.Equal(t, int64(0), result.FinalOrderTotal)
}

func TestEvaluate_Inactive(t *testing.T) {
	now := time.Now()

	v := activeVoucher(now)
	v.DiscountStatus = model.VoucherStatusInactive

	result := Evaluate(&v, &model.CartSnapshot{OrderTotal: 100000}, now)

	require.False(t, result.IsValid)
	assert.Equal(t, model.RedemptionErrInactive, result.ErrorKind)
}

func TestEvaluate_OutsideWindow(t *testing.T) {
	now := time.Now()

	expired := activeVoucher(now)
	expired.StartDate = now.Add(-2 * time.Hour)
	expired.EndDate = now.Add(-time.Hour)

	result := Evaluate(&expired, &model.CartSnapshot{OrderTotal: 100000}, now)
	require.False(t, result.IsValid)
	assert.Equal(t, model.RedemptionErrOutOfDate, result.ErrorKind)

	notStarted := activeVoucher(now)
	notStarted.StartDate = now.Add(time.Hour)
	notStarted.EndDate = now.Add(2 * time.Hour)

	result = Evaluate(&notStarted, &model.CartSnapshot{OrderTotal: 100000}, now)
	require.False(t, result.IsValid)
	assert.Equal(t, model.RedemptionErrOutOfDate, result.ErrorKind)
}

func TestEvaluate_Exhausted(t *testing.T) {
	now := time.Now()

	v := activeVoucher(now)
	v.MaxUses = 100
	v.UsesCount = 100

	result := Evaluate(&v, &model.CartSnapshot{OrderTotal: 100000}, now)

	require.False(t, result.IsValid)
	assert.Equal(t, model.RedemptionErrExhausted, result.ErrorKind)
}

func TestEvaluate_UnlimitedUsesNeverExhausts(t *testing.T) {
	now := time.Now()

	v := activeVoucher(now)
	v.MaxUses = 0
	v.UsesCount = 1000000

	result := Evaluate(&v, &model.CartSnapshot{OrderTotal: 100000}, now)

	assert.True(t, result.IsValid)
}

func TestEvaluate_SpecificNotApplicable(t *testing.T) {
	now := time.Now()

	v := activeVoucher(now)
	v.DiscountApplyType = model.ApplyTypeSpecific
	v.ProductIDs = []string{"p1"}

	snapshot := &model.CartSnapshot{
		OrderTotal: 100000,
		ProductIDs: []string{"p2"},
	}

	result := Evaluate(&v, snapshot, now)

	require.False(t, result.IsValid)
	assert.Equal(t, model.RedemptionErrNotApplicable, result.ErrorKind)
}

func TestEvaluate_SpecificApplicableViaCategory(t *testing.T) {
	now := time.Now()

	v := activeVoucher(now)
	v.DiscountApplyType = model.ApplyTypeSpecific
	v.CategoryIDs = []string{"cat1"}

	snapshot := &model.CartSnapshot{
		OrderTotal:  100000,
		ProductIDs:  []string{"p2"},
		CategoryIDs: []string{"cat1"},
	}

	result := Evaluate(&v, snapshot, now)

	assert.True(t, result.IsValid)
}

func TestEvaluate_CheckOrderShortCircuits(t *testing.T) {
	now := time.Now()

	// Inactive and exhausted and below minimum at once: status wins.
	v := activeVoucher(now)
	v.DiscountStatus = model.VoucherStatusInactive
	v.MaxUses = 1
	v.UsesCount = 1
	v.MinOrderValue = 100000

	result := Evaluate(&v, &model.CartSnapshot{OrderTotal: 0}, now)

	require.False(t, result.IsValid)
	assert.Equal(t, model.RedemptionErrInactive, result.ErrorKind)
}

func TestEvaluate_Idempotent(t *testing.T) {
	now := time.Now()

	v := activeVoucher(now)
	v.DiscountType = model.DiscountTypePercentage
	v.Value = 15

	snapshot := &model.CartSnapshot{OrderTotal: 300000}

	first := Evaluate(&v, snapshot, now)
	second := Evaluate(&v, snapshot, now)

	assert.Equal(t, first, second)
}

func TestDiscountAmount_NeverExceedsOrderTotal(t *testing.T) {
	cap := int64(999999)

	tests := []struct {
		name       string
		voucher    model.Voucher
		orderTotal int64
		want       int64
	}{
		{
			name:       "percentage of small total",
			voucher:    model.Voucher{DiscountType: model.DiscountTypePercentage, Value: 100},
			orderTotal: 5000,
			want:       5000,
		},
		{
			name:       "percentage clamped by cap",
			voucher:    model.Voucher{DiscountType: model.DiscountTypePercentage, Value: 50, MaxDiscountValue: &cap},
			orderTotal: 10000000,
			want:       999999,
		},
		{
			name:       "fix amount above total",
			voucher:    model.Voucher{DiscountType: model.DiscountTypeFixAmount, Value: 30000},
			orderTotal: 20000,
			want:       20000,
		},
		{
			name:       "fix amount below total",
			voucher:    model.Voucher{DiscountType: model.DiscountTypeFixAmount, Value: 30000},
			orderTotal: 50000,
			want:       30000,
		},
		{
			name:       "zero order total",
			voucher:    model.Voucher{DiscountType: model.DiscountTypeFixAmount, Value: 30000},
			orderTotal: 0,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountAmount(&tt.voucher, tt.orderTotal)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got, tt.orderTotal)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{100000, "100.000"},
		{1234567, "1.234.567"},
		{-100000, "-100.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount))
	}
}
