// Package access decides who may do what: a coarse role gate per operation and
// a fine ownership predicate for records that carry assignedTo/createdBy.
package access

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
)

// Principal is the authenticated identity making a request.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	Role      models.Role
	SessionID string
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// Viewer is a principal plus, for managers, the ids of their direct reports.
type Viewer struct {
	Principal
	TeamMemberIDs []uuid.UUID
}
