package calc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivnrby/warera-dashboard/internal/catalog"
	"github.com/ivnrby/warera-dashboard/internal/store"
)

var (
	breadRecipe = catalog.Recipe{
		Output:           "bread",
		ProductionPoints: 5,
		Inputs:           []catalog.RecipeInput{{ItemCode: "grain", QuantityRequired: 2}},
	}
	grainRecipe = catalog.Recipe{Output: "grain", ProductionPoints: 2}
)

func scenarioFixture() (store.Company, []store.Worker, fakePrices) {
	company := store.Company{CompanyID: "c1", Type: "bread", ProductionValue: 10}
	workers := []store.Worker{{Wage: 0.05, MaxEnergy: 70, Production: 10}}
	prices := fakePrices{"bread": 2, "grain": 0.5}
	return company, workers, prices
}

func TestProfitScenariosBothScenarios(t *testing.T) {
	company, workers, prices := scenarioFixture()
	c := newTestCalculator(prices)

	pair, err := c.ProfitScenarios(context.Background(), company, workers,
		[]catalog.Recipe{breadRecipe, grainRecipe}, nil, "bread", 0.2)
	require.NoError(t, err)

	// wage per PP: 8.4 daily wage over 16.8 actions × 12 PP = 201.6 PP/day.
	wagePerPP := 8.4 / 201.6
	a := pair.ScenarioA
	almostEqual(t, 0.4, a.Revenue) // 2 × (1/5)
	almostEqual(t, 1+wagePerPP, a.Costs)
	almostEqual(t, 0.4-1-wagePerPP, a.Profit)
	almostEqual(t, wagePerPP, a.Breakdown.WagePerPP)
	require.Len(t, a.Breakdown.InputCosts, 1)
	almostEqual(t, 1, a.Breakdown.InputCosts[0].Cost)

	// Every input has a recipe, so the self-production scenario applies
	// the flat 20% discount to input costs.
	require.NotNil(t, pair.ScenarioB)
	b := *pair.ScenarioB
	almostEqual(t, 0.4, b.Revenue)
	almostEqual(t, 0.8+wagePerPP, b.Costs)
	almostEqual(t, 0.8, b.Breakdown.InputCosts[0].Cost)
	assert.Greater(t, b.Profit, a.Profit)
}

func TestProfitScenariosNoScenarioBWithoutInputRecipes(t *testing.T) {
	company, workers, prices := scenarioFixture()
	c := newTestCalculator(prices)

	pair, err := c.ProfitScenarios(context.Background(), company, workers,
		[]catalog.Recipe{breadRecipe}, nil, "bread", 0.2)
	require.NoError(t, err)
	assert.Nil(t, pair.ScenarioB)
}

func TestProfitScenariosRawMaterial(t *testing.T) {
	company, workers, prices := scenarioFixture()
	c := newTestCalculator(prices)

	items := []store.Item{{Code: "grain", ProductionPoints: 2}}
	pair, err := c.ProfitScenarios(context.Background(), company, workers,
		nil, items, "grain", 0.2)
	require.NoError(t, err)

	wagePerPP := 8.4 / 201.6
	a := pair.ScenarioA
	almostEqual(t, 0.25, a.Revenue) // 0.5 × (1/2)
	almostEqual(t, wagePerPP, a.Costs)
	assert.Empty(t, a.Breakdown.InputCosts)
	assert.Nil(t, pair.ScenarioB)
}

func TestProfitScenariosUnknownItem(t *testing.T) {
	company, workers, prices := scenarioFixture()
	c := newTestCalculator(prices)

	_, err := c.ProfitScenarios(context.Background(), company, workers,
		nil, []store.Item{{Code: "grain"}}, "plutonium", 0.2)
	assert.ErrorIs(t, err, ErrNoProductionData)

	// A known item with no production point cost is equally unusable.
	_, err = c.ProfitScenarios(context.Background(), company, workers,
		nil, []store.Item{{Code: "grain"}}, "grain", 0.2)
	assert.ErrorIs(t, err, ErrNoProductionData)
}

func TestProfitScenariosNoWorkers(t *testing.T) {
	company, _, prices := scenarioFixture()
	c := newTestCalculator(prices)

	pair, err := c.ProfitScenarios(context.Background(), company, nil,
		[]catalog.Recipe{breadRecipe, grainRecipe}, nil, "bread", 0)
	require.NoError(t, err)
	assert.Zero(t, pair.ScenarioA.Breakdown.WagePerPP)
	almostEqual(t, 1, pair.ScenarioA.Costs)
}
