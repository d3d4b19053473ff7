package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainUser(email string, role models.Role, manager *uuid.UUID) models.User {
	return models.User{
		ID: uuid.New(), Email: email, Role: role, Status: models.StatusActive,
		ManagerID: manager, CreatedAt: start, UpdatedAt: start,
	}
}

type revokedSessions struct {
	users []uuid.UUID
	err   error
}

func (r *revokedSessions) EndAll(_ context.Context, userID uuid.UUID) error {
	r.users = append(r.users, userID)
	return r.err
}

func newUserService(users ...models.User) (*UserService, *fakeUserStore, *recordedActivity) {
	store := newFakeUserStore(users...)
	rec := &recordedActivity{}
	return NewUserService(store, &revokedSessions{}, clock.NewManual(start), rec), store, rec
}

func strPtr(s string) *string { return &s }

func TestUserUpdate_ChangesRoleAndBumpsUpdatedAt(t *testing.T) {
	admin := plainUser("admin@example.com", models.RoleAdmin, nil)
	emp := plainUser("emp@example.com", models.RoleEmployee, nil)
	svc, _, rec := newUserService(admin, emp)

	resp, err := svc.Update(context.Background(), access.Principal{UserID: admin.ID, Role: models.RoleAdmin},
		emp.ID, &dto.UpdateUserRequest{Role: strPtr("manager"), FirstName: strPtr(" Emma ")})
	require.NoError(t, err)
	assert.Equal(t, "manager", resp.Role)
	assert.Equal(t, "Emma", resp.FirstName)
	assert.True(t, resp.UpdatedAt.After(emp.UpdatedAt))
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "user_updated", rec.entries[0].Type)
}

func TestUserUpdate_ManagerRules(t *testing.T) {
	admin := plainUser("admin@example.com", models.RoleAdmin, nil)
	top := plainUser("top@example.com", models.RoleManager, nil)
	mid := plainUser("mid@example.com", models.RoleManager, &top.ID)
	leaf := plainUser("leaf@example.com", models.RoleEmployee, &mid.ID)
	svc, store, _ := newUserService(admin, top, mid, leaf)
	ctx := context.Background()
	actor := access.Principal{UserID: admin.ID, Role: models.RoleAdmin}

	_, err := svc.Update(ctx, actor, top.ID, &dto.UpdateUserRequest{ManagerID: dto.Some(top.ID)})
	assert.ErrorIs(t, err, ErrOwnManager)

	_, err = svc.Update(ctx, actor, top.ID, &dto.UpdateUserRequest{ManagerID: dto.Some(leaf.ID)})
	assert.ErrorIs(t, err, ErrManagerCycle)

	_, err = svc.Update(ctx, actor, leaf.ID, &dto.UpdateUserRequest{ManagerID: dto.Some(uuid.New())})
	assert.ErrorIs(t, err, ErrUnknownManager)

	resp, err := svc.Update(ctx, actor, leaf.ID, &dto.UpdateUserRequest{ManagerID: dto.Some(top.ID)})
	require.NoError(t, err)
	assert.Equal(t, top.ID, *resp.ManagerID)

	resp, err = svc.Update(ctx, actor, leaf.ID, &dto.UpdateUserRequest{ManagerID: dto.Null[uuid.UUID]()})
	require.NoError(t, err)
	assert.Nil(t, resp.ManagerID)

	// Absent managerId leaves the current value alone.
	_, err = svc.Update(ctx, actor, mid.ID, &dto.UpdateUserRequest{LastName: strPtr("Middle")})
	require.NoError(t, err)
	saved, _ := store.FindByID(ctx, mid.ID)
	require.NotNil(t, saved.ManagerID)
	assert.Equal(t, top.ID, *saved.ManagerID)
}

func TestUserUpdate_UnknownUser(t *testing.T) {
	svc, _, _ := newUserService()
	_, err := svc.Update(context.Background(), access.Principal{}, uuid.New(), &dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDelete_ReportsLoseTheirManager(t *testing.T) {
	admin := plainUser("admin@example.com", models.RoleAdmin, nil)
	mgr := plainUser("mgr@example.com", models.RoleManager, nil)
	report := plainUser("report@example.com", models.RoleEmployee, &mgr.ID)
	svc, store, _ := newUserService(admin, mgr, report)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, access.Principal{UserID: admin.ID, Role: models.RoleAdmin}, mgr.ID))

	_, err := store.FindByID(ctx, mgr.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	saved, err := store.FindByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Nil(t, saved.ManagerID)
}

func TestUserDelete_Rejections(t *testing.T) {
	admin := plainUser("admin@example.com", models.RoleAdmin, nil)
	poster := plainUser("poster@example.com", models.RoleEmployee, nil)
	svc, store, _ := newUserService(admin, poster)
	store.posters[poster.ID] = true
	ctx := context.Background()
	actor := access.Principal{UserID: admin.ID, Role: models.RoleAdmin}

	assert.ErrorIs(t, svc.Delete(ctx, actor, admin.ID), ErrCannotDeleteSelf)
	assert.ErrorIs(t, svc.Delete(ctx, actor, poster.ID), ErrUserHasDependents)
	assert.ErrorIs(t, svc.Delete(ctx, actor, uuid.New()), ErrUserNotFound)
}

func TestDirectory(t *testing.T) {
	a := plainUser("a@example.com", models.RoleEmployee, nil)
	a.FirstName, a.LastName = "Ann", "Lee"
	svc, _, _ := newUserService(a)

	entries, err := svc.Directory(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ann Lee", entries[0].Name)
	assert.Equal(t, "employee", entries[0].Role)
}

func TestUserChanges_RevokeSessions(t *testing.T) {
	admin := plainUser("admin@example.com", models.RoleAdmin, nil)
	emp := plainUser("emp@example.com", models.RoleEmployee, nil)
	other := plainUser("other@example.com", models.RoleEmployee, nil)
	gone := plainUser("gone@example.com", models.RoleEmployee, nil)
	store := newFakeUserStore(admin, emp, other, gone)
	revoked := &revokedSessions{}
	svc := NewUserService(store, revoked, clock.NewManual(start), &recordedActivity{})
	ctx := context.Background()
	actor := access.Principal{UserID: admin.ID, Role: models.RoleAdmin}

	// A name change keeps the user signed in.
	_, err := svc.Update(ctx, actor, emp.ID, &dto.UpdateUserRequest{FirstName: strPtr("Emma")})
	require.NoError(t, err)
	assert.Empty(t, revoked.users)

	_, err = svc.Update(ctx, actor, emp.ID, &dto.UpdateUserRequest{Role: strPtr("manager")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, actor, other.ID, &dto.UpdateUserRequest{Status: strPtr("inactive")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, actor, gone.ID))
	assert.Equal(t, []uuid.UUID{emp.ID, other.ID, gone.ID}, revoked.users)

	// Reactivation does not revoke anything.
	_, err = svc.Update(ctx, actor, other.ID, &dto.UpdateUserRequest{Status: strPtr("active")})
	require.NoError(t, err)
	assert.Len(t, revoked.users, 3)
}

func TestUserChanges_RevocationFailureDoesNotFailTheWrite(t *testing.T) {
	admin := plainUser("admin@example.com", models.RoleAdmin, nil)
	emp := plainUser("emp@example.com", models.RoleEmployee, nil)
	store := newFakeUserStore(admin, emp)
	svc := NewUserService(store, &revokedSessions{err: errors.New("redis down")}, clock.NewManual(start), &recordedActivity{})
	ctx := context.Background()

	_, err := svc.Update(ctx, access.Principal{UserID: admin.ID, Role: models.RoleAdmin}, emp.ID,
		&dto.UpdateUserRequest{Status: strPtr("inactive")})
	require.NoError(t, err)
	saved, _ := store.FindByID(ctx, emp.ID)
	assert.Equal(t, models.StatusInactive, saved.Status)
}
