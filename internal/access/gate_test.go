package access

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		role models.Role
		op   Operation
		want bool
	}{
		{models.RoleAdmin, Op(ResourceEmployee, ActionDelete), true},
		{models.RoleAdmin, Op(Resource("anything"), Action("at-all")), true},
		{models.RoleManager, Op(ResourceLead, ActionDelete), true},
		{models.RoleEmployee, Op(ResourceLead, ActionDelete), false},
		{models.RoleEmployee, Op(ResourceLead, ActionUpdate), true},
		{models.RoleManager, Op(ResourceEmployee, ActionCreate), false},
		{models.RoleManager, Op(ResourceUser, ActionList), false},
		{models.RoleEmployee, Op(ResourceUser, ActionDirectory), true},
		{models.RoleManager, Op(ResourcePost, ActionApprove), true},
		{models.RoleEmployee, Op(ResourcePost, ActionApprove), false},
		{models.RoleManager, Op(Resource("unlisted"), ActionRead), false},
		{models.Role("guest"), Op(ResourceLead, ActionRead), false},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+" "+tc.op.Key(), func(t *testing.T) {
			assert.Equal(t, tc.want, Allowed(tc.role, tc.op))
		})
	}
}

func TestCheck(t *testing.T) {
	err := Check(Principal{UserID: uuid.New(), Role: models.RoleEmployee}, Op(ResourceTask, ActionDelete))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	assert.NoError(t, Check(Principal{UserID: uuid.New(), Role: models.RoleManager}, Op(ResourceTask, ActionDelete)))
}

func TestOperationsFor(t *testing.T) {
	assert.Equal(t, []Action{ActionRead, ActionCreate, ActionUpdate},
		OperationsFor(models.RoleEmployee, ResourceLead))
	assert.Equal(t, []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete},
		OperationsFor(models.RoleManager, ResourceLead))
	assert.Equal(t, []Action{ActionRead}, OperationsFor(models.RoleManager, ResourceEmployee))
	assert.Equal(t, []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete},
		OperationsFor(models.RoleAdmin, ResourceEmployee))
	assert.Equal(t, []Action{ActionDirectory}, OperationsFor(models.RoleEmployee, ResourceUser))
}

func TestPermissionsCoversEveryResource(t *testing.T) {
	perms := Permissions(models.RoleEmployee)
	for _, r := range []Resource{ResourceLead, ResourceDeal, ResourceEmployee, ResourceTask, ResourceUser,
		ResourceAttendance, ResourceSocialProfile, ResourcePost, ResourceAnalytics, ResourceActivity} {
		_, ok := perms[r]
		assert.True(t, ok, r)
	}
	assert.NotContains(t, perms[ResourcePost], ActionApprove)
	assert.Contains(t, Permissions(models.RoleManager)[ResourcePost], ActionApprove)
}

func TestOperationKey(t *testing.T) {
	assert.Equal(t, "post:bulk", Op(ResourcePost, ActionBulk).Key())
}
