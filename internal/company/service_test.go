package company

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivnrby/warera-dashboard/internal/bonus"
	"github.com/ivnrby/warera-dashboard/internal/calc"
	"github.com/ivnrby/warera-dashboard/internal/logger"
	"github.com/ivnrby/warera-dashboard/internal/store"
	"github.com/ivnrby/warera-dashboard/internal/warera"
)

type fakeAPI struct {
	ids        []string
	idsErr     error
	companies  map[string]*warera.Company
	offers     map[string]*warera.WorkOffer
	workers    map[string][]warera.WorkerRef
	users      map[string]*warera.UserLite
	companyErr map[string]error
	userErr    map[string]error
}

func (f *fakeAPI) GetCompanyIDs(_ context.Context, _ string) ([]string, error) {
	return f.ids, f.idsErr
}

func (f *fakeAPI) GetCompanyByID(_ context.Context, companyID string) (*warera.Company, error) {
	if err := f.companyErr[companyID]; err != nil {
		return nil, err
	}
	c, ok := f.companies[companyID]
	if !ok {
		return nil, fmt.Errorf("no company %s", companyID)
	}
	return c, nil
}

func (f *fakeAPI) GetWorkOffer(_ context.Context, companyID string) (*warera.WorkOffer, error) {
	offer, ok := f.offers[companyID]
	if !ok {
		return nil, errors.New("no work offer")
	}
	return offer, nil
}

func (f *fakeAPI) GetWorkers(_ context.Context, companyID string) ([]warera.WorkerRef, error) {
	return f.workers[companyID], nil
}

func (f *fakeAPI) GetUserLite(_ context.Context, userID string) (*warera.UserLite, error) {
	if err := f.userErr[userID]; err != nil {
		return nil, err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("no user %s", userID)
	}
	return u, nil
}

type memCompanies struct {
	companies map[string]store.Company
	workers   map[string][]store.Worker
	replaced  int
}

func newMemCompanies() *memCompanies {
	return &memCompanies{
		companies: map[string]store.Company{},
		workers:   map[string][]store.Worker{},
	}
}

func (m *memCompanies) Replace(_ context.Context, company *store.Company, workers []store.Worker) error {
	m.companies[company.CompanyID] = *company
	m.workers[company.CompanyID] = workers
	m.replaced++
	return nil
}

func (m *memCompanies) GetByID(_ context.Context, companyID string) (*store.Company, error) {
	c, ok := m.companies[companyID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (m *memCompanies) GetByUserID(_ context.Context, userID string) ([]store.Company, error) {
	var out []store.Company
	for _, c := range m.companies {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCompanies) GetWorkers(_ context.Context, companyID string) ([]store.Worker, error) {
	return m.workers[companyID], nil
}

type fakeBonus struct {
	breakdown bonus.Breakdown
}

func (f fakeBonus) CalculateProductionBonus(_ context.Context, _, _ string, _ bool) bonus.Breakdown {
	return f.breakdown
}

type fakeCatalog struct {
	items map[string]*store.Item
}

func (f fakeCatalog) ItemByCode(_ context.Context, code string) (*store.Item, error) {
	item, ok := f.items[code]
	if !ok {
		return nil, store.ErrNotFound
	}
	return item, nil
}

type stubPrices map[string]float64

func (s stubPrices) LatestPrice(_ context.Context, itemCode string) (float64, bool, error) {
	price, ok := s[itemCode]
	return price, ok, nil
}

func newTestService(api *fakeAPI, companies *memCompanies, breakdown bonus.Breakdown, items map[string]*store.Item, prices stubPrices) *Service {
	log := logger.New("error")
	storage := &store.Storage{Companies: companies}
	svc := NewService(api, storage, fakeBonus{breakdown}, calc.New(prices, log), fakeCatalog{items}, log, 4)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func upstreamCompany(id, item string, storageLevel, engineLevel int) *warera.Company {
	return &warera.Company{
		ID:         id,
		Name:       "Test " + id,
		ItemCode:   item,
		Region:     "region-1",
		Production: 10,
		ActiveUpgradeLevels: map[string]int{
			"storage":         storageLevel,
			"automatedEngine": engineLevel,
		},
	}
}

func TestFetchByUserID(t *testing.T) {
	api := &fakeAPI{
		ids:       []string{"c1"},
		companies: map[string]*warera.Company{"c1": upstreamCompany("c1", "bread", 3, 2)},
		offers:    map[string]*warera.WorkOffer{"c1": {ProductionValue: 12, EnergyConsumption: 8}},
		workers: map[string][]warera.WorkerRef{
			"c1": {
				{ID: "w1", User: "u1", Wage: 0.05},
				{ID: "w2", User: "u2", Wage: 0.07},
			},
		},
		users: map[string]*warera.UserLite{
			"u1": {
				Username:  "alice",
				AvatarURL: "https://img/a.png",
				Skills: map[string]warera.Skill{
					"energy":     {Total: 80},
					"production": {Total: 5},
					"fidelity":   {Total: 10},
				},
			},
		},
		userErr: map[string]error{"u2": errors.New("boom")},
	}
	companies := newMemCompanies()
	svc := newTestService(api, companies, bonus.Breakdown{}, nil, stubPrices{})

	synced, err := svc.FetchByUserID(context.Background(), "owner")
	require.NoError(t, err)
	require.Len(t, synced, 1)

	c := synced[0].Company
	assert.Equal(t, "c1", c.CompanyID)
	assert.Equal(t, "owner", c.UserID)
	assert.Equal(t, "bread", c.Type)
	assert.Equal(t, 12.0, c.ProductionValue) // work offer wins over base production
	assert.Equal(t, 8.0, c.EnergyConsumption)
	assert.Equal(t, 600, c.MaxProduction) // storage level 3
	assert.Equal(t, 2, c.AutomatedEngineLevel)

	workers := synced[0].Workers
	require.Len(t, workers, 2)
	assert.Equal(t, "c1", workers[0].CompanyID)

	assert.Equal(t, "alice", workers[0].Username)
	require.NotNil(t, workers[0].AvatarURL)
	assert.Equal(t, 80.0, workers[0].MaxEnergy)
	assert.Equal(t, 5.0, workers[0].Production)
	assert.Equal(t, 10.0, workers[0].Fidelity)

	// The failed user lookup degrades the worker, not the company.
	assert.Equal(t, "Unknown", workers[1].Username)
	assert.Equal(t, 70.0, workers[1].MaxEnergy)
	assert.Zero(t, workers[1].Production)
	assert.Equal(t, 0.07, workers[1].Wage)

	assert.Equal(t, 1, companies.replaced)
}

func TestFetchByUserIDNoWorkOffer(t *testing.T) {
	api := &fakeAPI{
		ids:       []string{"c1"},
		companies: map[string]*warera.Company{"c1": upstreamCompany("c1", "bread", 0, 0)},
	}
	companies := newMemCompanies()
	svc := newTestService(api, companies, bonus.Breakdown{}, nil, stubPrices{})

	synced, err := svc.FetchByUserID(context.Background(), "owner")
	require.NoError(t, err)
	require.Len(t, synced, 1)

	c := synced[0].Company
	assert.Equal(t, 10.0, c.ProductionValue) // falls back to base production
	assert.Equal(t, 10.0, c.EnergyConsumption)
	assert.Equal(t, 200, c.MaxProduction) // unknown storage level defaults
}

func TestFetchByUserIDSkipsFailedCompany(t *testing.T) {
	api := &fakeAPI{
		ids: []string{"bad", "good"},
		companies: map[string]*warera.Company{
			"good": upstreamCompany("good", "iron", 1, 0),
		},
		companyErr: map[string]error{"bad": errors.New("upstream down")},
	}
	companies := newMemCompanies()
	svc := newTestService(api, companies, bonus.Breakdown{}, nil, stubPrices{})

	synced, err := svc.FetchByUserID(context.Background(), "owner")
	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, "good", synced[0].Company.CompanyID)
}

func TestFetchByUserIDListingFailure(t *testing.T) {
	api := &fakeAPI{idsErr: errors.New("listing down")}
	svc := newTestService(api, newMemCompanies(), bonus.Breakdown{}, nil, stubPrices{})

	_, err := svc.FetchByUserID(context.Background(), "owner")
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	api := &fakeAPI{
		companies: map[string]*warera.Company{"c1": upstreamCompany("c1", "bread", 2, 0)},
	}
	companies := newMemCompanies()
	companies.companies["c1"] = store.Company{CompanyID: "c1", UserID: "owner"}
	svc := newTestService(api, companies, bonus.Breakdown{}, nil, stubPrices{})

	synced, err := svc.Refresh(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "owner", synced.Company.UserID) // owner carried from storage
	assert.Equal(t, 400, synced.Company.MaxProduction)

	_, err = svc.Refresh(context.Background(), "never-seen")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestGetByIDEnrichesView(t *testing.T) {
	companies := newMemCompanies()
	companies.companies["c1"] = store.Company{
		CompanyID:       "c1",
		UserID:          "owner",
		Type:            "bread",
		Region:          "region-1",
		ProductionValue: 10,
	}
	companies.workers["c1"] = []store.Worker{
		{WorkerID: "w1", Wage: 0.05, MaxEnergy: 70, Production: 10},
	}

	breakdown := bonus.Breakdown{
		Total:   15,
		Country: &bonus.CountryComponent{Bonus: 15, CountryName: "Testland"},
	}
	items := map[string]*store.Item{
		"bread": {Code: "bread", ProductionPoints: 2, ProductionNeeds: store.NeedsMap{"grain": 2}},
	}
	svc := newTestService(&fakeAPI{}, companies, breakdown, items, stubPrices{"bread": 2, "grain": 0.5})

	view, err := svc.GetByID(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "c1", view.CompanyID)
	require.Len(t, view.Workers, 1)
	assert.Equal(t, 15.0, view.Bonus.Total)

	// paid 168 PP × 1.15 bonus = 193.2 PP, 2 PP per unit.
	assert.InDelta(t, 96.6, view.Metrics.Worker.DailyOutput, 1e-9)
	assert.InDelta(t, 8.4, view.Metrics.TotalDailyWage, 1e-9)

	_, err = svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestGetByUserID(t *testing.T) {
	companies := newMemCompanies()
	companies.companies["c1"] = store.Company{CompanyID: "c1", UserID: "owner", Type: "bread"}
	companies.companies["c2"] = store.Company{CompanyID: "c2", UserID: "other", Type: "iron"}

	svc := newTestService(&fakeAPI{}, companies, bonus.Breakdown{}, nil, stubPrices{})

	views, err := svc.GetByUserID(context.Background(), "owner")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "c1", views[0].CompanyID)
}
