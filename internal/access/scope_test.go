package access

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type row struct {
	ID         uuid.UUID
	AssignedTo *uuid.UUID
	CreatedBy  uuid.UUID
}

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=teamdesk dbname=teamdesk sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestVisibleTo_BuildsFilterPerRole(t *testing.T) {
	db := dryRunDB(t)
	self := uuid.New()
	member := uuid.New()

	cases := []struct {
		name     string
		viewer   Viewer
		contains string
		vars     int
	}{
		{"admin", Viewer{Principal: Principal{UserID: self, Role: models.RoleAdmin}}, "", 0},
		{"employee", Viewer{Principal: Principal{UserID: self, Role: models.RoleEmployee}}, "(assigned_to = $1 OR created_by = $2)", 2},
		{"manager", Viewer{Principal: Principal{UserID: self, Role: models.RoleManager}, TeamMemberIDs: []uuid.UUID{member}},
			"(assigned_to IN ($1,$2) OR created_by IN ($3,$4))", 4},
		{"unknown", Viewer{Principal: Principal{UserID: self, Role: models.Role("x")}}, "1 = 0", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stmt := db.Table("posting_schedule").Scopes(VisibleTo(tc.viewer, "assigned_to", "created_by")).Find(&[]row{}).Statement
			sql := stmt.SQL.String()
			if tc.contains == "" {
				assert.NotContains(t, sql, "WHERE")
			} else {
				assert.Contains(t, sql, tc.contains)
			}
			assert.Len(t, stmt.Vars, tc.vars)
		})
	}
}

type stubTeams struct {
	ids   []uuid.UUID
	err   error
	calls int
}

func (s *stubTeams) TeamMemberIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	s.calls++
	return s.ids, s.err
}

func TestResolveViewer(t *testing.T) {
	member := uuid.New()
	teams := &stubTeams{ids: []uuid.UUID{member}}

	v, err := ResolveViewer(context.Background(), teams, Principal{UserID: uuid.New(), Role: models.RoleEmployee})
	require.NoError(t, err)
	assert.Empty(t, v.TeamMemberIDs)
	assert.Equal(t, 0, teams.calls)

	v, err = ResolveViewer(context.Background(), teams, Principal{UserID: uuid.New(), Role: models.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{member}, v.TeamMemberIDs)
	assert.Equal(t, 1, teams.calls)

	teams.err = errors.New("db down")
	_, err = ResolveViewer(context.Background(), teams, Principal{UserID: uuid.New(), Role: models.RoleManager})
	assert.Error(t, err)
}
