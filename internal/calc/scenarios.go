package calc

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivnrby/warera-dashboard/internal/catalog"
	"github.com/ivnrby/warera-dashboard/internal/store"
)

// selfProductionDiscount is the assumed saving when producing recipe inputs
// in-house instead of buying them. A flat approximation, not a recursive
// cost solve through the input tree.
const selfProductionDiscount = 0.8

var ErrNoProductionData = errors.New("item not found or has no production data")

// Metrics describes a company's theoretical daily production throughput,
// with the formulas spelled out for display.
type Metrics struct {
	ProductionPointsPerWork     float64        `json:"productionPointsPerWork"`
	WorkActionsPerDay           float64        `json:"workActionsPerDay"`
	TotalProductionPointsPerDay float64        `json:"totalProductionPointsPerDay"`
	Formula                     MetricsFormula `json:"formula"`
}

type MetricsFormula struct {
	PPPerWork     string `json:"ppPerWork"`
	ActionsPerDay string `json:"actionsPerDay"`
	TotalPP       string `json:"totalPP"`
}

// ProductionMetrics computes throughput for a company's production value
// under the given bonus fractions and worker energy pool.
func ProductionMetrics(productionValue, productionBonus, fidelityBonus, maxEnergy float64) Metrics {
	ppPerWork := productionValue * (1 + productionBonus + fidelityBonus)
	actionsPerDay := maxEnergy * energyRegenPerHour * hoursPerDay / energyPerWork
	totalPP := actionsPerDay * ppPerWork

	return Metrics{
		ProductionPointsPerWork:     ppPerWork,
		WorkActionsPerDay:           actionsPerDay,
		TotalProductionPointsPerDay: totalPP,
		Formula: MetricsFormula{
			PPPerWork:     fmt.Sprintf("%g × (1 + %g + %g) = %g", productionValue, productionBonus, fidelityBonus, ppPerWork),
			ActionsPerDay: fmt.Sprintf("%g × 0.24 = %g", maxEnergy, actionsPerDay),
			TotalPP:       fmt.Sprintf("%g × %g = %g", actionsPerDay, ppPerWork, totalPP),
		},
	}
}

type Scenario struct {
	Revenue     float64           `json:"revenue"`
	Costs       float64           `json:"costs"`
	Profit      float64           `json:"profit"`
	ProfitPerPP float64           `json:"profitPerPP"`
	Breakdown   ScenarioBreakdown `json:"breakdown"`
}

type ScenarioBreakdown struct {
	OutputPrice     float64     `json:"outputPrice"`
	OutputPerPP     float64     `json:"outputPerPP"`
	ProductionBonus float64     `json:"productionBonus"`
	InputCosts      []InputCost `json:"inputCosts"`
	WagePerPP       float64     `json:"wagePerPP"`
}

type InputCost struct {
	ItemCode string  `json:"itemCode"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// ScenarioPair compares buying inputs at market (A) against producing them
// in-house at the flat discount (B). B is nil when any input lacks a recipe.
type ScenarioPair struct {
	ScenarioA Scenario  `json:"scenarioA"`
	ScenarioB *Scenario `json:"scenarioB"`
}

// ProfitScenarios prices a company's production of outputItem per production
// point. Raw materials without a recipe but with a production point cost get
// the materials-only variant with no input costs.
func (c *Calculator) ProfitScenarios(ctx context.Context, company store.Company, workers []store.Worker, recipes []catalog.Recipe, items []store.Item, outputItem string, productionBonus float64) (*ScenarioPair, error) {
	var recipe *catalog.Recipe
	for i := range recipes {
		if recipes[i].Output == outputItem {
			recipe = &recipes[i]
			break
		}
	}

	if recipe == nil {
		var item *store.Item
		for i := range items {
			if items[i].Code == outputItem {
				item = &items[i]
				break
			}
		}
		if item == nil || item.ProductionPoints <= 0 {
			return nil, ErrNoProductionData
		}
		return c.rawMaterialScenarios(ctx, company, workers, item, productionBonus), nil
	}

	wagePerPP := c.wagePerPP(company, workers, productionBonus)
	outputPrice := c.latestPrice(ctx, outputItem)
	outputPerPP := perUnit(1, recipe.ProductionPoints)

	inputCosts := make([]InputCost, len(recipe.Inputs))
	totalInputCost := 0.0
	for i, input := range recipe.Inputs {
		cost := c.latestPrice(ctx, input.ItemCode) * input.QuantityRequired
		inputCosts[i] = InputCost{ItemCode: input.ItemCode, Quantity: input.QuantityRequired, Cost: cost}
		totalInputCost += cost
	}

	scenarioA := buildScenario(outputPrice, outputPerPP, productionBonus, totalInputCost, wagePerPP, inputCosts)

	pair := &ScenarioPair{ScenarioA: scenarioA}

	if allInputsHaveRecipes(recipe, recipes) {
		selfCosts := make([]InputCost, len(inputCosts))
		totalSelfCost := 0.0
		for i, ic := range inputCosts {
			discounted := ic.Cost * selfProductionDiscount
			selfCosts[i] = InputCost{ItemCode: ic.ItemCode, Quantity: ic.Quantity, Cost: discounted}
			totalSelfCost += discounted
		}
		scenarioB := buildScenario(outputPrice, outputPerPP, productionBonus, totalSelfCost, wagePerPP, selfCosts)
		pair.ScenarioB = &scenarioB
	}

	return pair, nil
}

func (c *Calculator) rawMaterialScenarios(ctx context.Context, company store.Company, workers []store.Worker, item *store.Item, productionBonus float64) *ScenarioPair {
	wagePerPP := c.wagePerPP(company, workers, productionBonus)
	outputPrice := c.latestPrice(ctx, item.Code)
	outputPerPP := perUnit(1, item.ProductionPoints)

	scenarioA := buildScenario(outputPrice, outputPerPP, productionBonus, 0, wagePerPP, []InputCost{})
	return &ScenarioPair{ScenarioA: scenarioA}
}

// wagePerPP spreads the workforce's daily wage bill over the company's
// theoretical daily production points.
func (c *Calculator) wagePerPP(company store.Company, workers []store.Worker, productionBonus float64) float64 {
	totalDailyWage := 0.0
	for _, w := range workers {
		totalDailyWage += WorkerDaily(w, 0, 1).DailyWage
	}

	metrics := ProductionMetrics(company.ProductionValue, productionBonus, 0, 70)
	return perUnit(totalDailyWage, metrics.TotalProductionPointsPerDay)
}

func buildScenario(outputPrice, outputPerPP, productionBonus, totalInputCost, wagePerPP float64, inputCosts []InputCost) Scenario {
	revenue := outputPrice * outputPerPP
	costs := totalInputCost + wagePerPP
	profit := revenue - costs

	return Scenario{
		Revenue:     revenue,
		Costs:       costs,
		Profit:      profit,
		ProfitPerPP: profit,
		Breakdown: ScenarioBreakdown{
			OutputPrice:     outputPrice,
			OutputPerPP:     outputPerPP,
			ProductionBonus: productionBonus,
			InputCosts:      inputCosts,
			WagePerPP:       wagePerPP,
		},
	}
}

func allInputsHaveRecipes(recipe *catalog.Recipe, recipes []catalog.Recipe) bool {
	for _, input := range recipe.Inputs {
		found := false
		for i := range recipes {
			if recipes[i].Output == input.ItemCode {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
