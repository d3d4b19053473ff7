package analytics

import (
	"context"
	"math"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/crm"
	"github.com/shopspring/decimal"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "load dashboard data")
	}
	d := ComputeDashboard(snap)
	return &d, nil
}

// ComputeDashboard derives every dashboard figure from snap. Rates are whole
// percentages and are 0 when there is nothing to divide by.
func ComputeDashboard(snap *Snapshot) Dashboard {
	d := Dashboard{
		TotalLeads:      len(snap.LeadStages),
		TotalRevenue:    decimal.Zero,
		ActiveEmployees: snap.ActiveEmployees,
	}

	leadCounts := make(map[crm.Stage]int, len(crm.Stages))
	for _, st := range snap.LeadStages {
		leadCounts[st]++
	}

	dealCounts := make(map[crm.Stage]int, len(crm.Stages))
	dealValues := make(map[crm.Stage]decimal.Decimal, len(crm.Stages))
	closed := 0
	for _, deal := range snap.Deals {
		dealCounts[deal.Stage]++
		dealValues[deal.Stage] = dealValues[deal.Stage].Add(deal.Value)
		if deal.Stage == crm.StageClosed {
			closed++
			d.TotalRevenue = d.TotalRevenue.Add(deal.Value)
		} else {
			d.ActiveDeals++
		}
	}

	completed := 0
	for _, done := range snap.TaskCompleted {
		if done {
			completed++
		}
	}

	d.ConversionRate = percent(closed, d.TotalLeads)
	d.TaskCompletionRate = percent(completed, len(snap.TaskCompleted))

	d.LeadsByStage = make([]StageCount, 0, len(crm.Stages))
	d.DealsByStage = make([]StageCount, 0, len(crm.Stages))
	for _, st := range crm.Stages {
		d.LeadsByStage = append(d.LeadsByStage, StageCount{Stage: st, Count: leadCounts[st]})
		v := dealValues[st]
		d.DealsByStage = append(d.DealsByStage, StageCount{Stage: st, Count: dealCounts[st], Value: &v})
	}
	return d
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
