package auth

import (
	"github.com/google/uuid"

	"tasktracker/internal/model"
)

// CanAccess reports whether caller may read, update or delete a resource
// owned by ownerID. Superusers may act on everything, other users only on
// what they own. A resource without an owner is denied to everyone,
// superusers included: the owner foreign key makes such a row corrupt.
func CanAccess(caller *model.User, ownerID uuid.UUID) bool {
	if caller == nil || ownerID == uuid.Nil {
		return false
	}
	return caller.IsSuperuser || caller.ID == ownerID
}
