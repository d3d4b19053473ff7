package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/crm"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDashboardEmpty(t *testing.T) {
	d := ComputeDashboard(&Snapshot{})
	assert.Equal(t, 0, d.ConversionRate)
	assert.Equal(t, 0, d.TaskCompletionRate)
	assert.True(t, d.TotalRevenue.IsZero())
	assert.Len(t, d.LeadsByStage, len(crm.Stages))
	assert.Len(t, d.DealsByStage, len(crm.Stages))
}

func TestComputeDashboard(t *testing.T) {
	snap := &Snapshot{
		LeadStages: []crm.Stage{crm.StageLead, crm.StageLead, crm.StageNegotiation},
		Deals: []DealRow{
			{Stage: crm.StageClosed, Value: decimal.RequireFromString("1000.10")},
			{Stage: crm.StageClosed, Value: decimal.RequireFromString("0.20")},
			{Stage: crm.StageNegotiation, Value: decimal.RequireFromString("500")},
		},
		TaskCompleted:   []bool{true, false, false},
		ActiveEmployees: 4,
	}
	d := ComputeDashboard(snap)

	assert.Equal(t, 3, d.TotalLeads)
	assert.Equal(t, 1, d.ActiveDeals)
	assert.Equal(t, "1000.3", d.TotalRevenue.String())
	assert.Equal(t, 67, d.ConversionRate)
	assert.Equal(t, 33, d.TaskCompletionRate)
	assert.Equal(t, int64(4), d.ActiveEmployees)

	assert.Equal(t, StageCount{Stage: crm.StageLead, Count: 2}, d.LeadsByStage[0])
	closed := d.DealsByStage[2]
	assert.Equal(t, crm.StageClosed, closed.Stage)
	assert.Equal(t, 2, closed.Count)
	assert.Equal(t, "1000.3", closed.Value.String())
}

type fakeStore struct {
	snap *Snapshot
	err  error
}

func (f fakeStore) Snapshot(context.Context) (*Snapshot, error) { return f.snap, f.err }

func serve(store Store) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		access.SetPrincipal(c, access.Principal{UserID: uuid.New(), Role: models.RoleEmployee})
		return c.Next()
	})
	Mount(app, NewHandler(NewService(store)))
	return app
}

func TestDashboardEndpoint(t *testing.T) {
	app := serve(fakeStore{snap: &Snapshot{LeadStages: []crm.Stage{crm.StageLead}}})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/analytics/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 1, body["totalLeads"])
	assert.EqualValues(t, 0, body["conversionRate"])

	app = serve(fakeStore{err: errors.New("connection reset")})
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/analytics/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
