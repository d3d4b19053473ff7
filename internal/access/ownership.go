package access

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
)

// Ownership is the pair of user references the visibility predicate looks at.
type Ownership struct {
	AssignedTo *uuid.UUID
	CreatedBy  *uuid.UUID
}

// OwnedBy describes records with a single owner, such as attendance rows.
func OwnedBy(userID uuid.UUID) Ownership {
	return Ownership{AssignedTo: &userID, CreatedBy: &userID}
}

func (o Ownership) involves(id uuid.UUID) bool {
	return (o.AssignedTo != nil && *o.AssignedTo == id) ||
		(o.CreatedBy != nil && *o.CreatedBy == id)
}

// CanAccess is the visibility predicate, applied alike to reads, updates and deletes.
func CanAccess(v Viewer, o Ownership) bool {
	switch v.Role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		if o.involves(v.UserID) {
			return true
		}
		for _, id := range v.TeamMemberIDs {
			if o.involves(id) {
				return true
			}
		}
		return false
	case models.RoleEmployee:
		return o.involves(v.UserID)
	default:
		return false
	}
}

// Authorize is CanAccess as an error. Callers check existence first so a
// missing record is reported as not found before any 403.
func Authorize(v Viewer, o Ownership) error {
	if CanAccess(v, o) {
		return nil
	}
	return apperr.Forbidden("You do not have access to this resource")
}

// AllowedActions narrows the role gate for one record by the visibility predicate.
func AllowedActions(v Viewer, resource Resource, o Ownership) []Action {
	if !CanAccess(v, o) {
		return []Action{}
	}
	return OperationsFor(v.Role, resource)
}
