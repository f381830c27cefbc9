package analytics

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ivnrby/warera-dashboard/internal/logger"
	"github.com/ivnrby/warera-dashboard/internal/store"
)

const component = "ProductionAnalytics"

const defaultWindowDays = 30

// Report aggregates a company's tracked production over a trailing window.
type Report struct {
	AverageVariance float64                  `json:"averageVariance"`
	TotalActualPP   float64                  `json:"totalActualPP"`
	TotalExpectedPP float64                  `json:"totalExpectedPP"`
	Efficiency      float64                  `json:"efficiency"`
	History         []store.ProductionRecord `json:"history"`
}

// Service tracks daily production against expectation and reports variance
// statistics.
type Service struct {
	storage *store.Storage
	log     *logger.Logger

	now func() time.Time
}

func New(storage *store.Storage, log *logger.Logger) *Service {
	return &Service{storage: storage, log: log, now: time.Now}
}

// TrackProduction records one day's actual versus expected production
// points. The row is keyed by company and calendar day, so tracking twice on
// the same day overwrites.
func (s *Service) TrackProduction(ctx context.Context, companyID string, actualPP, expectedPP float64) error {
	variance := 0.0
	if expectedPP != 0 {
		variance = (actualPP - expectedPP) / expectedPP * 100
	}

	record := store.ProductionRecord{
		CompanyID:  companyID,
		Date:       truncateToDay(s.now()),
		ActualPP:   actualPP,
		ExpectedPP: expectedPP,
		Variance:   variance,
	}
	if err := s.storage.Production.Upsert(ctx, &record); err != nil {
		return fmt.Errorf("track production for %s: %w", companyID, err)
	}

	s.log.Info(component, "Tracked production for %s: %g/%g PP", companyID, actualPP, expectedPP)
	return nil
}

// History returns the trailing window of tracked days, oldest first.
func (s *Service) History(ctx context.Context, companyID string, days int) ([]store.ProductionRecord, error) {
	if days <= 0 {
		days = defaultWindowDays
	}
	since := truncateToDay(s.now().AddDate(0, 0, -days))
	return s.storage.Production.GetSince(ctx, companyID, since)
}

// Analytics summarizes the trailing window. No history yields a zero-valued
// report rather than an error.
func (s *Service) Analytics(ctx context.Context, companyID string, days int) (*Report, error) {
	history, err := s.History(ctx, companyID, days)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return &Report{History: []store.ProductionRecord{}}, nil
	}

	variances := make([]float64, len(history))
	report := Report{History: history}
	for i, record := range history {
		variances[i] = record.Variance
		report.TotalActualPP += record.ActualPP
		report.TotalExpectedPP += record.ExpectedPP
	}
	report.AverageVariance = stat.Mean(variances, nil)
	if report.TotalExpectedPP != 0 {
		report.Efficiency = report.TotalActualPP / report.TotalExpectedPP * 100
	}

	return &report, nil
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
