package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ivnrby/warera-dashboard/internal/logger"
	"github.com/ivnrby/warera-dashboard/internal/store"
	"github.com/ivnrby/warera-dashboard/internal/warera"
)

const component = "Catalog"

type Recipe struct {
	Output           string        `json:"output"`
	ProductionPoints float64       `json:"productionPoints"`
	Inputs           []RecipeInput `json:"inputs"`
}

type RecipeInput struct {
	ItemCode         string  `json:"itemCode"`
	QuantityRequired float64 `json:"quantityRequired"`
}

type ItemSource interface {
	Upsert(ctx context.Context, item *store.Item) error
	GetAll(ctx context.Context) ([]store.Item, error)
	GetByCode(ctx context.Context, code string) (*store.Item, error)
}

// Service keeps an in-memory snapshot of the game's item configuration,
// refreshed from gameConfig.getGameConfig at most once per TTL and persisted
// through the item store.
type Service struct {
	client *warera.Client
	items  ItemSource
	log    *logger.Logger
	ttl    time.Duration

	mu        sync.RWMutex
	snapshot  []store.Item
	lastFetch time.Time

	now func() time.Time
}

func NewService(client *warera.Client, items ItemSource, log *logger.Logger) *Service {
	return &Service{
		client: client,
		items:  items,
		log:    log,
		ttl:    24 * time.Hour,
		now:    time.Now,
	}
}

// Refresh fetches the game configuration unless the snapshot is younger than
// the TTL. force bypasses the TTL check.
func (s *Service) Refresh(ctx context.Context, force bool) error {
	s.mu.RLock()
	fresh := !s.lastFetch.IsZero() && s.now().Sub(s.lastFetch) < s.ttl
	s.mu.RUnlock()

	if fresh && !force {
		s.log.Debug(component, "Using cached game config")
		return nil
	}

	s.log.Info(component, "Fetching game configuration...")
	configItems, err := s.client.GetGameConfig(ctx)
	if err != nil {
		return err
	}
	if len(configItems) == 0 {
		s.log.Warn(component, "Game config returned no items, keeping previous snapshot")
		return nil
	}

	sort.SliceStable(configItems, func(i, j int) bool {
		return configItems[i].ItemCode() < configItems[j].ItemCode()
	})

	snapshot := make([]store.Item, 0, len(configItems))
	for i, ci := range configItems {
		item := store.Item{
			Code:             ci.ItemCode(),
			Name:             ci.ItemName(),
			DisplayOrder:     i,
			ProductionPoints: ci.ProductionPoints,
			ProductionNeeds:  store.NeedsMap(ci.ProductionNeeds),
		}
		if icon := ci.ItemIcon(); icon != "" {
			item.Icon = &icon
		}

		if err := s.items.Upsert(ctx, &item); err != nil {
			s.log.Error(component, "Failed to persist item %s: %v", item.Code, err)
			continue
		}
		snapshot = append(snapshot, item)
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.lastFetch = s.now()
	s.mu.Unlock()

	s.log.Info(component, "Cached %d items", len(snapshot))
	return nil
}

// Items returns the snapshot, falling back to the store when the process has
// not fetched the config yet.
func (s *Service) Items(ctx context.Context) ([]store.Item, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()

	if len(snapshot) > 0 {
		return snapshot, nil
	}

	items, err := s.items.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if len(s.snapshot) == 0 {
		s.snapshot = items
	}
	s.mu.Unlock()

	return items, nil
}

func (s *Service) ItemByCode(ctx context.Context, code string) (*store.Item, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Code == code {
			return &items[i], nil
		}
	}
	return s.items.GetByCode(ctx, code)
}

// Recipes derives production recipes from every item that declares
// production needs.
func (s *Service) Recipes(ctx context.Context) ([]Recipe, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	recipes := make([]Recipe, 0, len(items))
	for _, item := range items {
		if len(item.ProductionNeeds) == 0 {
			continue
		}
		recipes = append(recipes, BuildRecipe(item))
	}
	return recipes, nil
}

// BuildRecipe converts an item's production needs into a recipe with
// deterministically ordered inputs.
func BuildRecipe(item store.Item) Recipe {
	inputs := make([]RecipeInput, 0, len(item.ProductionNeeds))
	for code, quantity := range item.ProductionNeeds {
		inputs = append(inputs, RecipeInput{ItemCode: code, QuantityRequired: quantity})
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].ItemCode < inputs[j].ItemCode })

	return Recipe{
		Output:           item.Code,
		ProductionPoints: item.ProductionPoints,
		Inputs:           inputs,
	}
}
