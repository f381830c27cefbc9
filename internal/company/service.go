package company

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivnrby/warera-dashboard/internal/bonus"
	"github.com/ivnrby/warera-dashboard/internal/calc"
	"github.com/ivnrby/warera-dashboard/internal/catalog"
	"github.com/ivnrby/warera-dashboard/internal/logger"
	"github.com/ivnrby/warera-dashboard/internal/store"
	"github.com/ivnrby/warera-dashboard/internal/warera"
)

const component = "CompanyService"

const defaultWorkerFanout = 8

var ErrCompanyNotFound = errors.New("company not found")

// API is the slice of the upstream client the sync path needs.
type API interface {
	GetCompanyIDs(ctx context.Context, userID string) ([]string, error)
	GetCompanyByID(ctx context.Context, companyID string) (*warera.Company, error)
	GetWorkOffer(ctx context.Context, companyID string) (*warera.WorkOffer, error)
	GetWorkers(ctx context.Context, companyID string) ([]warera.WorkerRef, error)
	GetUserLite(ctx context.Context, userID string) (*warera.UserLite, error)
}

// BonusSource resolves a region/item production bonus breakdown.
type BonusSource interface {
	CalculateProductionBonus(ctx context.Context, regionID, itemCode string, forceRefresh bool) bonus.Breakdown
}

// ItemCatalog looks up item definitions for recipe derivation.
type ItemCatalog interface {
	ItemByCode(ctx context.Context, code string) (*store.Item, error)
}

// Synced is one company as persisted by a sync pass.
type Synced struct {
	Company store.Company  `json:"company"`
	Workers []store.Worker `json:"workers"`
}

// View is the read-path representation: the stored company enriched with its
// workers, the resolved production bonus and the derived daily metrics.
type View struct {
	store.Company
	Workers []store.Worker      `json:"workers"`
	Bonus   bonus.Breakdown     `json:"productionBonus"`
	Metrics calc.CompanyMetrics `json:"metrics"`
}

// Service syncs companies from upstream into storage and serves enriched
// read views. Companies are fetched sequentially; the per-worker user
// enrichment inside each company fans out up to workerFanout concurrent
// calls.
type Service struct {
	api          API
	storage      *store.Storage
	bonus        BonusSource
	calc         *calc.Calculator
	catalog      ItemCatalog
	log          *logger.Logger
	workerFanout int

	now func() time.Time
}

func NewService(api API, storage *store.Storage, bonusSource BonusSource, calculator *calc.Calculator, items ItemCatalog, log *logger.Logger, workerFanout int) *Service {
	if workerFanout <= 0 {
		workerFanout = defaultWorkerFanout
	}
	return &Service{
		api:          api,
		storage:      storage,
		bonus:        bonusSource,
		calc:         calculator,
		catalog:      items,
		log:          log,
		workerFanout: workerFanout,
		now:          time.Now,
	}
}

// FetchByUserID lists every company id the user owns, fetches each company
// with its work offer and enriched workers, and replaces the stored rows. A
// single company's failure is logged and skipped; the listing itself failing
// aborts the sync.
func (s *Service) FetchByUserID(ctx context.Context, userID string) ([]Synced, error) {
	s.log.Info(component, "Fetching companies for user %s", userID)

	ids, err := s.api.GetCompanyIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list companies for user %s: %w", userID, err)
	}
	s.log.Info(component, "Found %d companies for user %s", len(ids), userID)

	synced := make([]Synced, 0, len(ids))
	for _, companyID := range ids {
		result, err := s.syncCompany(ctx, userID, companyID)
		if err != nil {
			s.log.Error(component, "Failed to sync company %s: %v", companyID, err)
			continue
		}
		synced = append(synced, *result)
	}
	return synced, nil
}

// Refresh re-syncs a single already-known company. The owner comes from the
// stored row, so an id never synced before is a not-found.
func (s *Service) Refresh(ctx context.Context, companyID string) (*Synced, error) {
	existing, err := s.storage.Companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return s.syncCompany(ctx, existing.UserID, companyID)
}

func (s *Service) syncCompany(ctx context.Context, userID, companyID string) (*Synced, error) {
	upstream, err := s.api.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("fetch company %s: %w", companyID, err)
	}

	offer, err := s.api.GetWorkOffer(ctx, companyID)
	if err != nil {
		// Not every company posts a work offer.
		s.log.Debug(component, "No work offer for company %s: %v", companyID, err)
		offer = nil
	}

	workers := s.fetchWorkers(ctx, companyID)

	productionValue := upstream.Production
	energyConsumption := 10.0
	if offer != nil {
		if offer.ProductionValue > 0 {
			productionValue = offer.ProductionValue
		}
		if offer.EnergyConsumption > 0 {
			energyConsumption = offer.EnergyConsumption
		}
	}

	company := store.Company{
		CompanyID:            upstream.CompanyID(),
		UserID:               userID,
		Name:                 upstream.Name,
		Type:                 upstream.OutputItem(),
		Region:               upstream.Region,
		ProductionValue:      productionValue,
		MaxProduction:        catalog.MaxProduction(upstream.StorageLevel()),
		EnergyConsumption:    energyConsumption,
		AutomatedEngineLevel: upstream.AutomatedEngineLevel(),
		LastFetched:          s.now(),
	}
	for i := range workers {
		workers[i].CompanyID = company.CompanyID
	}

	if err := s.storage.Companies.Replace(ctx, &company, workers); err != nil {
		return nil, fmt.Errorf("persist company %s: %w", companyID, err)
	}

	return &Synced{Company: company, Workers: workers}, nil
}

// fetchWorkers lists a company's workers and enriches each with the owning
// user's profile concurrently. A failed user lookup degrades that worker to
// defaults instead of failing the company.
func (s *Service) fetchWorkers(ctx context.Context, companyID string) []store.Worker {
	refs, err := s.api.GetWorkers(ctx, companyID)
	if err != nil {
		s.log.Debug(component, "Failed to fetch workers for company %s: %v", companyID, err)
		return nil
	}
	if len(refs) == 0 {
		return nil
	}

	workers := make([]store.Worker, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerFanout)

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			workers[i] = s.enrichWorker(gctx, ref)
			return nil
		})
	}
	g.Wait()

	return workers
}

func (s *Service) enrichWorker(ctx context.Context, ref warera.WorkerRef) store.Worker {
	worker := store.Worker{
		WorkerID: ref.WorkerID(),
		UserID:   ref.UserID(),
		Wage:     ref.Wage,
	}

	user, err := s.api.GetUserLite(ctx, ref.UserID())
	if err != nil {
		s.log.Debug(component, "Failed to fetch user %s for worker %s: %v", ref.UserID(), ref.WorkerID(), err)
		worker.Username = "Unknown"
		worker.MaxEnergy = 70
		return worker
	}

	worker.Username = user.Username
	if worker.Username == "" {
		worker.Username = "Unknown"
	}
	if user.AvatarURL != "" {
		avatar := user.AvatarURL
		worker.AvatarURL = &avatar
	}
	worker.MaxEnergy = user.Skill("energy")
	if worker.MaxEnergy == 0 {
		worker.MaxEnergy = 70
	}
	worker.Production = user.Skill("production")
	worker.Fidelity = user.Skill("fidelity")

	return worker
}

// GetByID serves the stored company enriched with bonus and daily metrics.
func (s *Service) GetByID(ctx context.Context, companyID string) (*View, error) {
	company, err := s.storage.Companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	view := s.buildView(ctx, *company)
	return &view, nil
}

// GetByUserID serves all of a user's stored companies, enriched.
func (s *Service) GetByUserID(ctx context.Context, userID string) ([]View, error) {
	companies, err := s.storage.Companies.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]View, len(companies))
	for i, company := range companies {
		views[i] = s.buildView(ctx, company)
	}
	return views, nil
}

func (s *Service) buildView(ctx context.Context, company store.Company) View {
	workers, err := s.storage.Companies.GetWorkers(ctx, company.CompanyID)
	if err != nil {
		s.log.Warn(component, "Failed to load workers for company %s: %v", company.CompanyID, err)
		workers = nil
	}

	breakdown := s.bonus.CalculateProductionBonus(ctx, company.Region, company.Type, false)

	recipe := s.recipeFor(ctx, company.Type)
	metrics := s.calc.CompanyDaily(ctx, company, workers, recipe, breakdown.Total/100)

	return View{
		Company: company,
		Workers: workers,
		Bonus:   breakdown,
		Metrics: metrics,
	}
}

func (s *Service) recipeFor(ctx context.Context, itemCode string) *catalog.Recipe {
	item, err := s.catalog.ItemByCode(ctx, itemCode)
	if err != nil {
		s.log.Warn(component, "No catalog entry for %s: %v", itemCode, err)
		return nil
	}
	if len(item.ProductionNeeds) == 0 && item.ProductionPoints <= 0 {
		return nil
	}
	recipe := catalog.BuildRecipe(*item)
	return &recipe
}
