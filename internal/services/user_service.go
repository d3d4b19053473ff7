package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
)

var (
	ErrCannotDeleteSelf  = apperr.New(apperr.KindValidation, "CANNOT_DELETE_SELF", "You cannot delete your own account")
	ErrOwnManager        = apperr.New(apperr.KindValidation, "INVALID_MANAGER", "A user cannot be their own manager")
	ErrUnknownManager    = apperr.New(apperr.KindValidation, "INVALID_MANAGER", "Manager does not exist")
	ErrManagerCycle      = apperr.New(apperr.KindValidation, "INVALID_MANAGER", "Manager assignment would create a reporting cycle")
	ErrUserHasDependents = apperr.New(apperr.KindConflict, "USER_HAS_DEPENDENTS", "User still has scheduled posts they created; reassign or delete them first")
)

// SessionRevoker ends every live session of a user.
type SessionRevoker interface {
	EndAll(ctx context.Context, userID uuid.UUID) error
}

type UserService struct {
	users    UserStore
	sessions SessionRevoker
	clock    clock.Clock
	activity apps.ActivityRecorder
}

func NewUserService(users UserStore, sessions SessionRevoker, clk clock.Clock, activity apps.ActivityRecorder) *UserService {
	return &UserService{users: users, sessions: sessions, clock: clk, activity: activity}
}

// Directory is the trimmed listing every signed-in user may see.
func (s *UserService) Directory(ctx context.Context) ([]dto.DirectoryEntry, error) {
	users, err := s.users.List(ctx, false)
	if err != nil {
		return nil, apperr.Internal(err, "list users")
	}
	out := make([]dto.DirectoryEntry, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, dto.DirectoryEntry{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Name:      u.DisplayName(),
			Role:      string(u.Role),
			Status:    string(u.Status),
			ManagerID: u.ManagerID,
		})
	}
	return out, nil
}

func (s *UserService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx, false)
	if err != nil {
		return nil, apperr.Internal(err, "list users")
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out, nil
}

// Update is the admin edit path. It is the only place a role can change.
func (s *UserService) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "load user")
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, apperr.Field("firstName", "is required")
		}
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return nil, apperr.Field("lastName", "is required")
		}
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.ProfileImageURL.Set {
		user.ProfileImageURL = req.ProfileImageURL.Ptr()
	}
	prevRole, prevStatus := user.Role, user.Status
	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.Valid() {
			return nil, apperr.Field("role", "must be one of: admin, manager, employee")
		}
		user.Role = role
	}
	if req.Status != nil {
		status := models.UserStatus(*req.Status)
		if status != models.StatusActive && status != models.StatusInactive {
			return nil, apperr.Field("status", "must be one of: active, inactive")
		}
		user.Status = status
	}
	if req.ManagerID.Set {
		managerID := req.ManagerID.Ptr()
		if managerID != nil {
			if err := s.checkManager(ctx, user.ID, *managerID); err != nil {
				return nil, err
			}
		}
		user.ManagerID = managerID
	}

	user.UpdatedAt = clock.NextStamp(s.clock.Now(), user.UpdatedAt)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, wrapStoreErr(err, "update user")
	}

	if user.Role != prevRole {
		slog.WarnContext(ctx, "user role changed", "user_id", actor.UserID.String(), "target_user_id", user.ID.String(),
			"from", string(prevRole), "to", string(user.Role), "action", "update_user")
	}
	if user.Role != prevRole || (prevStatus == models.StatusActive && user.Status != models.StatusActive) {
		s.revokeSessions(ctx, user.ID, "update_user")
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "user_updated",
		EntityType:   "user",
		EntityID:     &user.ID,
		TargetUserID: &user.ID,
		Description:  fmt.Sprintf("%s updated user %s", actor.Name, user.DisplayName()),
	})

	resp := ToUserResponse(user)
	return &resp, nil
}

// checkManager rejects self-management, unknown managers and any assignment
// that would make the user an indirect manager of itself.
func (s *UserService) checkManager(ctx context.Context, userID, managerID uuid.UUID) error {
	if managerID == userID {
		return ErrOwnManager
	}
	seen := map[uuid.UUID]bool{userID: true}
	next := &managerID
	for next != nil {
		if seen[*next] {
			return ErrManagerCycle
		}
		seen[*next] = true
		m, err := s.users.FindByID(ctx, *next)
		if errors.Is(err, ErrUserNotFound) {
			if *next == managerID {
				return ErrUnknownManager
			}
			return nil
		}
		if err != nil {
			return apperr.Internal(err, "check manager chain")
		}
		next = m.ManagerID
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	if id == actor.UserID {
		return ErrCannotDeleteSelf
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return wrapStoreErr(err, "load user")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return wrapStoreErr(err, "delete user")
	}

	s.revokeSessions(ctx, id, "delete_user")

	slog.InfoContext(ctx, "user deleted", "user_id", actor.UserID.String(), "target_user_id", id.String(), "action", "delete_user")
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:      actor.UserID,
		Type:        "user_deleted",
		EntityType:  "user",
		Description: fmt.Sprintf("%s deleted user %s", actor.Name, user.DisplayName()),
		Metadata:    map[string]any{"email": user.Email},
	})
	return nil
}

// revokeSessions signs the user out everywhere. Failures are only logged
// since the write has already committed.
func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID, action string) {
	if err := s.sessions.EndAll(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "revoke sessions failed", "target_user_id", userID.String(), "action", action, "error", err)
	}
}
