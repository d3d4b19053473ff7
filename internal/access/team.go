package access

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamResolver lists a manager's direct reports (one level, not transitive).
type TeamResolver interface {
	TeamMemberIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error)
}

type GormTeamResolver struct {
	db *gorm.DB
}

func NewGormTeamResolver(db *gorm.DB) *GormTeamResolver {
	return &GormTeamResolver{db: db}
}

func (r *GormTeamResolver) TeamMemberIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("manager_id = ?", managerID).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load team members: %w", err)
	}
	return ids, nil
}

// ResolveViewer loads team members only for managers.
func ResolveViewer(ctx context.Context, teams TeamResolver, p Principal) (Viewer, error) {
	v := Viewer{Principal: p}
	if p.Role != models.RoleManager {
		return v, nil
	}
	ids, err := teams.TeamMemberIDs(ctx, p.UserID)
	if err != nil {
		return Viewer{}, err
	}
	v.TeamMemberIDs = ids
	return v, nil
}
