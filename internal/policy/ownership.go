// Package policy contains pure authorization rules for domain entities.
package policy

import "verdant/internal/models"

// CanMutate reports whether the principal may update or delete the given
// contribution. Only the owner of a live contribution may mutate it;
// soft-deleted rows are never mutable. The check uses the stored owner id,
// not a live join, so contributions orphaned by a user's soft-deletion
// remain mutable by that id.
func CanMutate(principalID uint, contribution *models.Contribution) bool {
	if contribution == nil || principalID == 0 {
		return false
	}
	if contribution.DeletedAt.Valid {
		return false
	}
	return contribution.UserID == principalID
}
