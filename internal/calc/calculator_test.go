package calc

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivnrby/warera-dashboard/internal/catalog"
	"github.com/ivnrby/warera-dashboard/internal/logger"
	"github.com/ivnrby/warera-dashboard/internal/store"
)

type fakePrices map[string]float64

func (f fakePrices) LatestPrice(_ context.Context, itemCode string) (float64, bool, error) {
	price, ok := f[itemCode]
	return price, ok, nil
}

func newTestCalculator(prices fakePrices) *Calculator {
	return New(prices, logger.New("error"))
}

func almostEqual(t *testing.T, want, got float64) {
	t.Helper()
	if math.Abs(want-got) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWorkerDaily(t *testing.T) {
	w := store.Worker{Wage: 0.05, MaxEnergy: 70, Production: 10, Fidelity: 20}

	m := WorkerDaily(w, 0.4, 1)
	almostEqual(t, 168, m.PaidProduction)
	almostEqual(t, 8.4, m.DailyWage)
	almostEqual(t, 268.8, m.TotalProduction)
	almostEqual(t, 268.8, m.OutputUnits)

	// A recipe costing 2 PP per unit halves the output units.
	m = WorkerDaily(w, 0.4, 2)
	almostEqual(t, 134.4, m.OutputUnits)
}

func TestWorkerDailyIncompleteData(t *testing.T) {
	tests := []struct {
		name   string
		worker store.Worker
	}{
		{"no energy", store.Worker{Wage: 0.05, Production: 10}},
		{"no production skill", store.Worker{Wage: 0.05, MaxEnergy: 70}},
		{"both missing", store.Worker{Wage: 0.05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := WorkerDaily(tt.worker, 0.4, 1)
			assert.Zero(t, m.DailyWage)
			assert.Zero(t, m.PaidProduction)
			assert.Zero(t, m.TotalProduction)
			assert.Zero(t, m.OutputUnits)
		})
	}
}

func TestAutomationDailyOutput(t *testing.T) {
	almostEqual(t, 36, AutomationDailyOutput(3, 2))
	almostEqual(t, 24, AutomationDailyOutput(1, 1))
	almostEqual(t, 0, AutomationDailyOutput(0, 2))
	// Missing recipe defaults to 1 PP per unit.
	almostEqual(t, 48, AutomationDailyOutput(2, 0))
}

func TestCompanyDailyAutomationOnly(t *testing.T) {
	c := newTestCalculator(fakePrices{"ammo": 1.5})
	company := store.Company{Type: "ammo", AutomatedEngineLevel: 3}
	recipe := &catalog.Recipe{Output: "ammo", ProductionPoints: 2}

	m := c.CompanyDaily(context.Background(), company, nil, recipe, 0)

	require.NotNil(t, m.Automation)
	almostEqual(t, 36, m.Automation.DailyOutput)
	almostEqual(t, 54, m.Automation.DailyRevenue)
	almostEqual(t, 54, m.Automation.ProfitSelfProduction)
	almostEqual(t, 54, m.Automation.ProfitWithTrade)
	almostEqual(t, 0, m.Automation.CostPerUnit)

	// With no workers the combined view equals the automation view.
	almostEqual(t, 36, m.Combined.DailyOutput)
	almostEqual(t, 54, m.Combined.ProfitSelfProduction)
	assert.Zero(t, m.Combined.DailyWage)
}

func TestCompanyDailyWorkersAndAutomation(t *testing.T) {
	c := newTestCalculator(fakePrices{"bread": 2, "grain": 0.5})
	company := store.Company{Type: "bread", AutomatedEngineLevel: 1}
	recipe := &catalog.Recipe{
		Output:           "bread",
		ProductionPoints: 2,
		Inputs:           []catalog.RecipeInput{{ItemCode: "grain", QuantityRequired: 2}},
	}
	workers := []store.Worker{{Wage: 0.05, MaxEnergy: 70, Production: 10}}

	m := c.CompanyDaily(context.Background(), company, workers, recipe, 0)

	// Worker: paid=168 PP/day, output=84 units, wage=8.4.
	almostEqual(t, 8.4, m.TotalDailyWage)
	almostEqual(t, 84, m.Worker.DailyOutput)
	almostEqual(t, 168, m.Worker.DailyRevenue)
	almostEqual(t, 84, m.Worker.DailyInputCost) // 1 per unit × 84
	almostEqual(t, 168-8.4, m.Worker.ProfitSelfProduction)
	almostEqual(t, 168-8.4-84, m.Worker.ProfitWithTrade)
	almostEqual(t, (8.4+84)/84, m.Worker.CostPerUnit)

	// Automation: 24 PP/day → 12 units.
	require.NotNil(t, m.Automation)
	almostEqual(t, 12, m.Automation.DailyOutput)
	almostEqual(t, 12, m.Automation.DailyInputCost)
	almostEqual(t, 12.0/12, m.Automation.CostPerUnit)

	// Combined: pairwise sums, cost per unit recomputed from totals rather
	// than summed.
	almostEqual(t, 96, m.Combined.DailyOutput)
	almostEqual(t, 192, m.Combined.DailyRevenue)
	almostEqual(t, 96, m.Combined.DailyInputCost)
	almostEqual(t, (8.4+96)/96, m.Combined.CostPerUnit)
	assert.NotEqual(t, m.Worker.CostPerUnit+m.Automation.CostPerUnit, m.Combined.CostPerUnit)
}

func TestCompanyDailyMissingPriceIsZeroRevenue(t *testing.T) {
	c := newTestCalculator(fakePrices{})
	company := store.Company{Type: "bread"}
	workers := []store.Worker{{Wage: 0.05, MaxEnergy: 70, Production: 10}}

	m := c.CompanyDaily(context.Background(), company, workers, nil, 0)
	assert.Zero(t, m.Worker.DailyRevenue)
	almostEqual(t, -8.4, m.Worker.ProfitSelfProduction)
}

func TestProductionMetrics(t *testing.T) {
	m := ProductionMetrics(5, 0.2, 0.1, 70)
	almostEqual(t, 6.5, m.ProductionPointsPerWork)
	almostEqual(t, 16.8, m.WorkActionsPerDay)
	almostEqual(t, 109.2, m.TotalProductionPointsPerDay)
	assert.Contains(t, m.Formula.ActionsPerDay, "70")
}
