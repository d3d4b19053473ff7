package access

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisibleTo returns a GORM scope restricting rows to those CanAccess would
// permit. Column names are trusted identifiers supplied by the store.
func VisibleTo(v Viewer, assignedCol, createdCol string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch v.Role {
		case models.RoleAdmin:
			return db
		case models.RoleManager:
			ids := make([]uuid.UUID, 0, len(v.TeamMemberIDs)+1)
			ids = append(ids, v.UserID)
			ids = append(ids, v.TeamMemberIDs...)
			return db.Where(fmt.Sprintf("(%s IN ? OR %s IN ?)", assignedCol, createdCol), ids, ids)
		case models.RoleEmployee:
			return db.Where(fmt.Sprintf("(%s = ? OR %s = ?)", assignedCol, createdCol), v.UserID, v.UserID)
		default:
			return db.Where("1 = 0")
		}
	}
}
