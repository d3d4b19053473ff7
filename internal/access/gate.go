package access

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
)

type Resource string

const (
	ResourceLead          Resource = "lead"
	ResourceDeal          Resource = "deal"
	ResourceEmployee      Resource = "employee"
	ResourceTask          Resource = "task"
	ResourceUser          Resource = "user"
	ResourceAttendance    Resource = "attendance"
	ResourceSocialProfile Resource = "social_profile"
	ResourcePost          Resource = "post"
	ResourceAnalytics     Resource = "analytics"
	ResourceActivity      Resource = "activity"
)

type Action string

const (
	ActionRead      Action = "read"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionList      Action = "list"
	ActionDirectory Action = "directory"
	ActionMark      Action = "mark"
	ActionClone     Action = "clone"
	ActionBulk      Action = "bulk"
	ActionApprove   Action = "approve"
)

type Operation struct {
	Resource Resource
	Action   Action
}

func Op(r Resource, a Action) Operation { return Operation{Resource: r, Action: a} }

// Key renders the operation as "resource:action".
func (o Operation) Key() string { return string(o.Resource) + ":" + string(o.Action) }

var (
	staff    = []models.Role{models.RoleManager, models.RoleEmployee}
	managers = []models.Role{models.RoleManager}
	nobody   []models.Role // admin only
)

type gateEntry struct {
	op    Operation
	roles []models.Role
}

// Admin is implied for every row. Order is the order OperationsFor reports.
var gateTable = []gateEntry{
	{Op(ResourceLead, ActionRead), staff},
	{Op(ResourceLead, ActionCreate), staff},
	{Op(ResourceLead, ActionUpdate), staff},
	{Op(ResourceLead, ActionDelete), managers},

	{Op(ResourceDeal, ActionRead), staff},
	{Op(ResourceDeal, ActionCreate), staff},
	{Op(ResourceDeal, ActionUpdate), staff},
	{Op(ResourceDeal, ActionDelete), managers},

	{Op(ResourceEmployee, ActionRead), staff},
	{Op(ResourceEmployee, ActionCreate), nobody},
	{Op(ResourceEmployee, ActionUpdate), nobody},
	{Op(ResourceEmployee, ActionDelete), nobody},

	{Op(ResourceTask, ActionRead), staff},
	{Op(ResourceTask, ActionCreate), staff},
	{Op(ResourceTask, ActionUpdate), staff},
	{Op(ResourceTask, ActionDelete), managers},

	{Op(ResourceUser, ActionDirectory), staff},
	{Op(ResourceUser, ActionList), nobody},
	{Op(ResourceUser, ActionUpdate), nobody},
	{Op(ResourceUser, ActionDelete), nobody},

	{Op(ResourceAttendance, ActionMark), staff},
	{Op(ResourceAttendance, ActionRead), staff},

	{Op(ResourceSocialProfile, ActionRead), staff},
	{Op(ResourceSocialProfile, ActionCreate), staff},
	{Op(ResourceSocialProfile, ActionUpdate), staff},
	{Op(ResourceSocialProfile, ActionDelete), staff},

	{Op(ResourcePost, ActionRead), staff},
	{Op(ResourcePost, ActionCreate), staff},
	{Op(ResourcePost, ActionUpdate), staff},
	{Op(ResourcePost, ActionDelete), staff},
	{Op(ResourcePost, ActionClone), staff},
	{Op(ResourcePost, ActionBulk), staff},
	{Op(ResourcePost, ActionApprove), managers},

	{Op(ResourceAnalytics, ActionRead), staff},
	{Op(ResourceActivity, ActionRead), staff},
}

var gate = func() map[Operation][]models.Role {
	m := make(map[Operation][]models.Role, len(gateTable))
	for _, e := range gateTable {
		m[e.op] = e.roles
	}
	return m
}()

// Allowed reports whether role may invoke op. Admin may invoke anything;
// other roles only what the table lists for them.
func Allowed(role models.Role, op Operation) bool {
	if role == models.RoleAdmin {
		return true
	}
	for _, r := range gate[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Check is Allowed as an error.
func Check(p Principal, op Operation) error {
	if Allowed(p.Role, op) {
		return nil
	}
	slog.Warn("role gate denied", "user_id", p.UserID.String(), "role", string(p.Role), "operation", op.Key())
	return apperr.Forbidden("Insufficient permissions")
}

// OperationsFor lists the actions role may take on resource, in table order.
func OperationsFor(role models.Role, resource Resource) []Action {
	out := []Action{}
	for _, e := range gateTable {
		if e.op.Resource == resource && Allowed(role, e.op) {
			out = append(out, e.op.Action)
		}
	}
	return out
}

// Permissions is OperationsFor across every resource, for client-side hints.
func Permissions(role models.Role) map[Resource][]Action {
	out := make(map[Resource][]Action)
	for _, e := range gateTable {
		if _, seen := out[e.op.Resource]; !seen {
			out[e.op.Resource] = OperationsFor(role, e.op.Resource)
		}
	}
	return out
}
