// Package auth holds the pure authorization checks guarding voucher
// management. Admins may touch everything; shop owners only their own
// vouchers.
package auth

import (
	"shopsifu-discount/internal/model"

	"github.com/google/uuid"
)

// CanAccess reports whether the actor may read, update or delete a resource
// owned by ownerID.
func CanAccess(actorID uuid.UUID, role model.Role, ownerID uuid.UUID) bool {
	return role == model.RoleAdmin || actorID == ownerID
}

// CanSetOwnership reports whether the actor may create a voucher owned by
// requestedShopID. An admin may set any shop (or none, for platform
// vouchers); a non-admin may only claim their own shop or omit the field,
// in which case the engine defaults it to the actor.
func CanSetOwnership(actorID uuid.UUID, role model.Role, requestedShopID *uuid.UUID) bool {
	if role == model.RoleAdmin {
		return true
	}
	return requestedShopID == nil || *requestedShopID == actorID
}

// CanListFor reports whether the actor may list vouchers created by
// createdByID. Non-admins must scope the listing to themselves.
func CanListFor(actorID uuid.UUID, role model.Role, createdByID uuid.UUID) bool {
	return role == model.RoleAdmin || actorID == createdByID
}
