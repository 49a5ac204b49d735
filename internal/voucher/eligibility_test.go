package voucher

import (
	"testing"

	"shopsifu-discount/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFilterEligible_DropsExhausted(t *testing.T) {
	vouchers := []model.Voucher{
		{Code: "LIVE1", MaxUses: 100, UsesCount: 10},
		{Code: "GONE1", MaxUses: 100, UsesCount: 100},
		{Code: "FREE1", MaxUses: 0, UsesCount: 100000},
	}

	got := FilterEligible(vouchers, &model.CartSnapshot{}, false)

	codes := make([]string, len(got))
	for i, v := range got {
		codes[i] = v.Code
	}
	assert.Equal(t, []string{"LIVE1", "FREE1"}, codes)
}

func TestFilterEligible_SpecificIntersection(t *testing.T) {
	vouchers := []model.Voucher{
		{Code: "ALL1", DiscountApplyType: model.ApplyTypeAll},
		{Code: "HIT1", DiscountApplyType: model.ApplyTypeSpecific, ProductIDs: []string{"p1"}},
		{Code: "MISS1", DiscountApplyType: model.ApplyTypeSpecific, ProductIDs: []string{"p9"}},
		{Code: "CAT1", DiscountApplyType: model.ApplyTypeSpecific, CategoryIDs: []string{"c1"}},
		{Code: "BRD1", DiscountApplyType: model.ApplyTypeSpecific, BrandIDs: []string{"b9"}},
	}

	snapshot := &model.CartSnapshot{
		ProductIDs:  []string{"p1", "p2"},
		CategoryIDs: []string{"c1"},
		BrandIDs:    []string{"b1"},
	}

	got := FilterEligible(vouchers, snapshot, true)

	codes := make([]string, len(got))
	for i, v := range got {
		codes[i] = v.Code
	}
	assert.Equal(t, []string{"ALL1", "HIT1", "CAT1"}, codes)
}

func TestFilterEligible_NoCartSkipsIntersection(t *testing.T) {
	// Browsing without a cart must not hide SPECIFIC vouchers: the
	// intersection check only runs once real cart contents exist.
	vouchers := []model.Voucher{
		{Code: "SPEC1", DiscountApplyType: model.ApplyTypeSpecific, ProductIDs: []string{"p1"}},
	}

	got := FilterEligible(vouchers, &model.CartSnapshot{}, false)

	assert.Len(t, got, 1)
}

func TestFilterEligible_EmptyInput(t *testing.T) {
	got := FilterEligible(nil, &model.CartSnapshot{}, true)
	assert.Empty(t, got)
}

func TestAppliesToCart(t *testing.T) {
	tests := []struct {
		name     string
		voucher  model.Voucher
		snapshot *model.CartSnapshot
		want     bool
	}{
		{
			name:     "ALL always applies",
			voucher:  model.Voucher{DiscountApplyType: model.ApplyTypeAll},
			snapshot: &model.CartSnapshot{},
			want:     true,
		},
		{
			name:     "ALL applies even to nil snapshot",
			voucher:  model.Voucher{DiscountApplyType: model.ApplyTypeAll},
			snapshot: nil,
			want:     true,
		},
		{
			name:     "SPECIFIC with nil snapshot does not apply",
			voucher:  model.Voucher{DiscountApplyType: model.ApplyTypeSpecific, ProductIDs: []string{"p1"}},
			snapshot: nil,
			want:     false,
		},
		{
			name:    "SPECIFIC brand match",
			voucher: model.Voucher{DiscountApplyType: model.ApplyTypeSpecific, BrandIDs: []string{"b1"}},
			snapshot: &model.CartSnapshot{
				BrandIDs: []string{"b1", "b2"},
			},
			want: true,
		},
		{
			name:    "SPECIFIC no overlap anywhere",
			voucher: model.Voucher{DiscountApplyType: model.ApplyTypeSpecific, ProductIDs: []string{"p1"}, BrandIDs: []string{"b1"}},
			snapshot: &model.CartSnapshot{
				ProductIDs: []string{"p2"},
				BrandIDs:   []string{"b2"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AppliesToCart(&tt.voucher, tt.snapshot))
		})
	}
}
