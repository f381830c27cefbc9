package collect

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ivnrby/warera-dashboard/internal/logger"
	"github.com/ivnrby/warera-dashboard/internal/store"
	"github.com/ivnrby/warera-dashboard/internal/warera"
)

const component = "DataCollection"

const (
	// Top-order fetches go upstream in chunks of this many items.
	orderBatchSize = 30
	// Orders requested per side (buy/sell) per item.
	ordersPerSide = 5
	// Recent orders sampled when deriving a price point's volume and spread.
	recentOrderSample = 10
)

type Catalog interface {
	Refresh(ctx context.Context, force bool) error
	Items(ctx context.Context) ([]store.Item, error)
}

type API interface {
	GetPrices(ctx context.Context) (map[string]float64, error)
	GetTopOrdersBatch(ctx context.Context, itemCodes []string, limit int) ([]*warera.TopOrders, error)
}

// Collector runs one data collection cycle: refresh the item catalog, snap
// current market prices into price history, then replace the top-order book
// for every item. The catalog failing aborts the cycle; the later stages log
// and skip individual items.
type Collector struct {
	api     API
	catalog Catalog
	storage *store.Storage
	log     *logger.Logger

	now func() time.Time
}

func New(api API, catalog Catalog, storage *store.Storage, log *logger.Logger) *Collector {
	return &Collector{
		api:     api,
		catalog: catalog,
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// Run executes a full collection cycle.
func (c *Collector) Run(ctx context.Context) error {
	c.log.Info(component, "Starting data collection cycle...")

	if err := c.catalog.Refresh(ctx, false); err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}

	var stageErrs []error
	if err := c.collectPrices(ctx); err != nil {
		c.log.Error(component, "Price collection failed: %v", err)
		stageErrs = append(stageErrs, err)
	}
	if err := c.collectOrders(ctx); err != nil {
		c.log.Error(component, "Order collection failed: %v", err)
		stageErrs = append(stageErrs, err)
	}

	if len(stageErrs) == 0 {
		c.log.Info(component, "Data collection completed successfully")
	}
	return errors.Join(stageErrs...)
}

// collectPrices stores one price point per item, deriving volume and the
// best buy/sell from the most recent stored orders.
func (c *Collector) collectPrices(ctx context.Context) error {
	c.log.Info(component, "Fetching market prices...")

	prices, err := c.api.GetPrices(ctx)
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}

	codes := make([]string, 0, len(prices))
	for code := range prices {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	taken := c.now()
	stored := 0
	for _, code := range codes {
		point := store.PricePoint{
			ItemCode:  code,
			Price:     prices[code],
			Timestamp: taken,
		}

		orders, err := c.storage.Orders.GetRecent(ctx, code, recentOrderSample)
		if err != nil {
			c.log.Warn(component, "No recent orders for %s: %v", code, err)
		} else {
			point.Volume, point.HighestBuy, point.LowestSell = summarizeOrders(orders)
		}

		if err := c.storage.Prices.Insert(ctx, &point); err != nil {
			c.log.Warn(component, "Failed to store price for %s: %v", code, err)
			continue
		}
		stored++
	}

	c.log.Info(component, "Stored prices for %d items", stored)
	return nil
}

func summarizeOrders(orders []store.TradingOrder) (volume float64, highestBuy, lowestSell *float64) {
	for _, order := range orders {
		volume += order.Quantity
		switch order.Type {
		case store.OrderTypeBuy:
			if highestBuy == nil || order.Price > *highestBuy {
				price := order.Price
				highestBuy = &price
			}
		case store.OrderTypeSell:
			if lowestSell == nil || order.Price < *lowestSell {
				price := order.Price
				lowestSell = &price
			}
		}
	}
	return volume, highestBuy, lowestSell
}

// collectOrders refreshes the stored top-order book for every catalog item,
// batching upstream calls. A failed batch skips its items, not the cycle.
func (c *Collector) collectOrders(ctx context.Context) error {
	items, err := c.catalog.Items(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	fetched := 0
	for start := 0; start < len(items); start += orderBatchSize {
		end := start + orderBatchSize
		if end > len(items) {
			end = len(items)
		}
		codes := make([]string, 0, end-start)
		for _, item := range items[start:end] {
			codes = append(codes, item.Code)
		}

		books, err := c.api.GetTopOrdersBatch(ctx, codes, ordersPerSide)
		if err != nil {
			c.log.Error(component, "Order batch fetch failed for %d items: %v", len(codes), err)
			continue
		}

		taken := c.now()
		for i, book := range books {
			if book == nil {
				c.log.Debug(component, "No order book for %s", codes[i])
				continue
			}
			if err := c.storage.Orders.ReplaceSnapshot(ctx, codes[i], taken, flattenBook(codes[i], book, taken)); err != nil {
				c.log.Warn(component, "Failed to store orders for %s: %v", codes[i], err)
				continue
			}
			fetched++
		}
	}

	c.log.Info(component, "Fetched orders for %d of %d items", fetched, len(items))
	return nil
}

func flattenBook(itemCode string, book *warera.TopOrders, taken time.Time) []store.TradingOrder {
	orders := make([]store.TradingOrder, 0, len(book.BuyOrders)+len(book.SellOrders))
	for _, o := range book.BuyOrders {
		orders = append(orders, store.TradingOrder{
			ItemCode:  itemCode,
			Type:      store.OrderTypeBuy,
			Price:     o.Price,
			Quantity:  o.Quantity,
			Timestamp: taken,
		})
	}
	for _, o := range book.SellOrders {
		orders = append(orders, store.TradingOrder{
			ItemCode:  itemCode,
			Type:      store.OrderTypeSell,
			Price:     o.Price,
			Quantity:  o.Quantity,
			Timestamp: taken,
		})
	}
	return orders
}
