package calc

import (
	"context"
	"errors"

	"github.com/ivnrby/warera-dashboard/internal/catalog"
	"github.com/ivnrby/warera-dashboard/internal/logger"
	"github.com/ivnrby/warera-dashboard/internal/store"
)

const component = "Calculator"

// Game production constants.
const (
	// Energy regenerates at 10% of max energy per hour.
	energyRegenPerHour = 0.1
	hoursPerDay        = 24
	// One work action consumes 10 energy.
	energyPerWork = 10.0
	// Automation yields 24 production points per engine level per day.
	automationPPPerLevel = 24.0
)

// PriceSource resolves the latest known market price for an item. ok=false
// means no price data exists, which degrades the dependent figures to zero.
type PriceSource interface {
	LatestPrice(ctx context.Context, itemCode string) (float64, bool, error)
}

type latestPriceGetter interface {
	GetLatest(ctx context.Context, itemCode string) (*store.PricePoint, error)
}

// StorePrices adapts the price history store to a PriceSource.
type StorePrices struct {
	Prices latestPriceGetter
}

func (s StorePrices) LatestPrice(ctx context.Context, itemCode string) (float64, bool, error) {
	point, err := s.Prices.GetLatest(ctx, itemCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return point.Price, true, nil
}

// WorkerMetrics are the derived per-worker daily figures. They are computed
// per view, never persisted.
type WorkerMetrics struct {
	DailyWage       float64 `json:"dailyWage"`
	PaidProduction  float64 `json:"paidProduction"`
	TotalProduction float64 `json:"totalProduction"`
	OutputUnits     float64 `json:"outputUnits"`
}

// WorkerDaily derives a worker's daily wage, production points and output
// units. companyBonus is the company's production bonus as a fraction,
// productionPointsPerUnit comes from the output item's recipe (1 when the
// item has none). A worker with missing energy or production skill yields
// zeros across the board.
func WorkerDaily(w store.Worker, companyBonus, productionPointsPerUnit float64) WorkerMetrics {
	if w.MaxEnergy == 0 || w.Production == 0 {
		return WorkerMetrics{}
	}

	energyPerDay := w.MaxEnergy * energyRegenPerHour * hoursPerDay
	paid := (energyPerDay / energyPerWork) * w.Production
	total := paid * (1 + companyBonus + w.Fidelity/100)

	ppu := productionPointsPerUnit
	if ppu <= 0 {
		ppu = 1
	}

	return WorkerMetrics{
		DailyWage:       w.Wage * paid,
		PaidProduction:  paid,
		TotalProduction: total,
		OutputUnits:     total / ppu,
	}
}

// AutomationDailyOutput is the units per day an automated engine produces on
// its own.
func AutomationDailyOutput(engineLevel int, productionPointsPerUnit float64) float64 {
	if engineLevel <= 0 {
		return 0
	}
	ppu := productionPointsPerUnit
	if ppu <= 0 {
		ppu = 1
	}
	return (float64(engineLevel) * automationPPPerLevel) / ppu
}

// ProfitMetricsBase is shared by the worker-driven, automation-driven and
// combined daily figures.
type ProfitMetricsBase struct {
	DailyOutput          float64 `json:"dailyOutput"`
	DailyRevenue         float64 `json:"dailyRevenue"`
	DailyInputCost       float64 `json:"dailyInputCost"`
	ProfitSelfProduction float64 `json:"profitSelfProduction"`
	ProfitWithTrade      float64 `json:"profitWithTrade"`
	CostPerUnit          float64 `json:"costPerUnit"`
}

type WorkerProfit struct {
	ProfitMetricsBase
	DailyWage float64 `json:"dailyWage"`
}

type AutomationProfit struct {
	ProfitMetricsBase
}

type DailyProfit struct {
	ProfitMetricsBase
	DailyWage float64 `json:"dailyWage"`
}

// CompanyMetrics is the full per-company daily picture served to the
// dashboard.
type CompanyMetrics struct {
	Workers        []WorkerMetrics   `json:"workers"`
	TotalDailyWage float64           `json:"totalDailyWage"`
	Worker         WorkerProfit      `json:"workerProfitMetrics"`
	Automation     *AutomationProfit `json:"automationProfitMetrics,omitempty"`
	Combined       DailyProfit       `json:"dailyProfitMetrics"`
}

// Calculator converts companies, workers and recipes into daily economics.
type Calculator struct {
	prices PriceSource
	log    *logger.Logger
}

func New(prices PriceSource, log *logger.Logger) *Calculator {
	return &Calculator{prices: prices, log: log}
}

func (c *Calculator) latestPrice(ctx context.Context, itemCode string) float64 {
	price, ok, err := c.prices.LatestPrice(ctx, itemCode)
	if err != nil {
		c.log.Warn(component, "Price lookup failed for %s: %v", itemCode, err)
		return 0
	}
	if !ok {
		c.log.Warn(component, "No price history for %s, treating as 0", itemCode)
		return 0
	}
	return price
}

// inputCostPerUnit prices one output unit's recipe inputs at current market
// prices. No recipe or no inputs costs nothing.
func (c *Calculator) inputCostPerUnit(ctx context.Context, recipe *catalog.Recipe) float64 {
	if recipe == nil {
		return 0
	}
	cost := 0.0
	for _, input := range recipe.Inputs {
		cost += c.latestPrice(ctx, input.ItemCode) * input.QuantityRequired
	}
	return cost
}

// CompanyDaily aggregates worker and automation production into the daily
// profit metrics. bonusFraction is the company's total production bonus as a
// fraction (e.g. 0.25 for +25%).
func (c *Calculator) CompanyDaily(ctx context.Context, company store.Company, workers []store.Worker, recipe *catalog.Recipe, bonusFraction float64) CompanyMetrics {
	ppu := 1.0
	if recipe != nil && recipe.ProductionPoints > 0 {
		ppu = recipe.ProductionPoints
	}

	metrics := CompanyMetrics{Workers: make([]WorkerMetrics, len(workers))}

	workerOutput := 0.0
	for i, w := range workers {
		wm := WorkerDaily(w, bonusFraction, ppu)
		metrics.Workers[i] = wm
		metrics.TotalDailyWage += wm.DailyWage
		workerOutput += wm.OutputUnits
	}

	outputPrice := c.latestPrice(ctx, company.Type)
	unitInputCost := c.inputCostPerUnit(ctx, recipe)

	workerRevenue := workerOutput * outputPrice
	workerInputCost := unitInputCost * workerOutput
	metrics.Worker = WorkerProfit{
		ProfitMetricsBase: ProfitMetricsBase{
			DailyOutput:          workerOutput,
			DailyRevenue:         workerRevenue,
			DailyInputCost:       workerInputCost,
			ProfitSelfProduction: workerRevenue - metrics.TotalDailyWage,
			ProfitWithTrade:      workerRevenue - metrics.TotalDailyWage - workerInputCost,
			CostPerUnit:          perUnit(metrics.TotalDailyWage+workerInputCost, workerOutput),
		},
		DailyWage: metrics.TotalDailyWage,
	}

	combinedOutput := workerOutput
	combinedInputCost := workerInputCost

	if company.AutomatedEngineLevel > 0 {
		autoOutput := AutomationDailyOutput(company.AutomatedEngineLevel, ppu)
		autoRevenue := autoOutput * outputPrice
		autoInputCost := unitInputCost * autoOutput
		metrics.Automation = &AutomationProfit{
			ProfitMetricsBase: ProfitMetricsBase{
				DailyOutput:          autoOutput,
				DailyRevenue:         autoRevenue,
				DailyInputCost:       autoInputCost,
				ProfitSelfProduction: autoRevenue,
				ProfitWithTrade:      autoRevenue - autoInputCost,
				CostPerUnit:          perUnit(autoInputCost, autoOutput),
			},
		}
		combinedOutput += autoOutput
		combinedInputCost += autoInputCost
	}

	combinedRevenue := combinedOutput * outputPrice
	metrics.Combined = DailyProfit{
		ProfitMetricsBase: ProfitMetricsBase{
			DailyOutput:          combinedOutput,
			DailyRevenue:         combinedRevenue,
			DailyInputCost:       combinedInputCost,
			ProfitSelfProduction: combinedRevenue - metrics.TotalDailyWage,
			ProfitWithTrade:      combinedRevenue - metrics.TotalDailyWage - combinedInputCost,
			// Recomputed from combined totals, not the sum of the two
			// per-unit costs.
			CostPerUnit: perUnit(metrics.TotalDailyWage+combinedInputCost, combinedOutput),
		},
		DailyWage: metrics.TotalDailyWage,
	}

	return metrics
}

func perUnit(total, units float64) float64 {
	if units == 0 {
		return 0
	}
	return total / units
}
