package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// PriceStats summarizes an item's price history over a trailing window.
type PriceStats struct {
	ItemCode string  `json:"itemCode"`
	Days     int     `json:"days"`
	Samples  int     `json:"samples"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"stdDev"`
	Latest   float64 `json:"latest"`
}

// PriceSummary aggregates the stored price history for one item through a
// dataframe. An empty history yields a zero-valued summary.
func (s *Service) PriceSummary(ctx context.Context, itemCode string, days int) (*PriceStats, error) {
	if days <= 0 {
		days = defaultWindowDays
	}
	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)

	history, err := s.storage.Prices.GetHistory(ctx, itemCode, since)
	if err != nil {
		return nil, fmt.Errorf("price history for %s: %w", itemCode, err)
	}

	summary := &PriceStats{ItemCode: itemCode, Days: days}
	if len(history) == 0 {
		return summary, nil
	}

	prices := make([]float64, len(history))
	for i, point := range history {
		prices[i] = point.Price
	}

	df := dataframe.New(series.New(prices, series.Float, "price"))
	if df.Error() != nil {
		return nil, fmt.Errorf("build price frame for %s: %w", itemCode, df.Error())
	}

	col := df.Col("price")
	summary.Samples = df.Nrow()
	summary.Min = col.Min()
	summary.Max = col.Max()
	summary.Mean = col.Mean()
	summary.StdDev = col.StdDev()
	summary.Latest = history[len(history)-1].Price

	return summary, nil
}
