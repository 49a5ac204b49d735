package model

import "github.com/google/uuid"

// CartSnapshot is an ephemeral summary of a set of cart items, resolved at
// evaluation time and never persisted. OrderTotal is in the smallest
// currency unit.
type CartSnapshot struct {
	OrderTotal  int64      `json:"orderTotal"`
	ShopID      *uuid.UUID `json:"shopId,omitempty"`
	ProductIDs  []string   `json:"productIds"`
	CategoryIDs []string   `json:"categoryIds"`
	BrandIDs    []string   `json:"brandIds"`
}

// IsEmpty reports whether the snapshot was resolved without any cart items.
func (s *CartSnapshot) IsEmpty() bool {
	return s == nil || len(s.ProductIDs) == 0
}
