package analytics

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/crm"
	"github.com/shopspring/decimal"
)

// Snapshot is the raw material for one dashboard, loaded fresh per request.
type Snapshot struct {
	LeadStages      []crm.Stage
	Deals           []DealRow
	TaskCompleted   []bool
	ActiveEmployees int64
}

type DealRow struct {
	Stage crm.Stage
	Value decimal.Decimal
}

type StageCount struct {
	Stage crm.Stage        `json:"stage"`
	Count int              `json:"count"`
	Value *decimal.Decimal `json:"value,omitempty"`
}

type Dashboard struct {
	TotalLeads         int             `json:"totalLeads"`
	ActiveDeals        int             `json:"activeDeals"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	ConversionRate     int             `json:"conversionRate"`
	TaskCompletionRate int             `json:"taskCompletionRate"`
	ActiveEmployees    int64           `json:"activeEmployees"`
	DealsByStage       []StageCount    `json:"dealsByStage"`
	LeadsByStage       []StageCount    `json:"leadsByStage"`
}
