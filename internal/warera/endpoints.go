package warera

import (
	"context"
	"encoding/json"
	"fmt"
)

// Typed wrappers over Request/BatchRequest for every consumed endpoint.
// Each returns the decoded result.data payload; a nil payload means the
// upstream had no data for the call.

func decodeInto[T any](raw json.RawMessage, endpoint string) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: decode payload: %w", endpoint, err)
	}
	return &out, nil
}

// GetCompanyIDs walks company.getCompanies through its cursor until the
// upstream stops returning one.
func (c *Client) GetCompanyIDs(ctx context.Context, userID string) ([]string, error) {
	const endpoint = "company.getCompanies"

	var ids []string
	cursor := ""
	for {
		params := map[string]any{"userId": userID, "perPage": 100}
		if cursor != "" {
			params["cursor"] = cursor
		}

		raw, err := c.Request(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		page, err := decodeInto[CompanyPage](raw, endpoint)
		if err != nil {
			return nil, err
		}
		if page == nil || len(page.Items) == 0 {
			break
		}

		ids = append(ids, page.Items...)
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	return ids, nil
}

func (c *Client) GetCompanyByID(ctx context.Context, companyID string) (*Company, error) {
	const endpoint = "company.getById"
	raw, err := c.Request(ctx, endpoint, map[string]any{"companyId": companyID})
	if err != nil {
		return nil, err
	}
	return decodeInto[Company](raw, endpoint)
}

func (c *Client) GetWorkOffer(ctx context.Context, companyID string) (*WorkOffer, error) {
	const endpoint = "workOffer.getWorkOfferByCompanyId"
	raw, err := c.Request(ctx, endpoint, map[string]any{"companyId": companyID})
	if err != nil {
		return nil, err
	}
	return decodeInto[WorkOffer](raw, endpoint)
}

func (c *Client) GetWorkers(ctx context.Context, companyID string) ([]WorkerRef, error) {
	const endpoint = "worker.getWorkers"
	raw, err := c.Request(ctx, endpoint, map[string]any{"companyId": companyID})
	if err != nil {
		return nil, err
	}
	list, err := decodeInto[WorkerList](raw, endpoint)
	if err != nil || list == nil {
		return nil, err
	}
	return list.Workers, nil
}

func (c *Client) GetUserLite(ctx context.Context, userID string) (*UserLite, error) {
	const endpoint = "user.getUserLite"
	raw, err := c.Request(ctx, endpoint, map[string]any{"userId": userID})
	if err != nil {
		return nil, err
	}
	return decodeInto[UserLite](raw, endpoint)
}

// GetGameConfig returns the raw item set, which arrives either as an array
// or as an object keyed by item code.
func (c *Client) GetGameConfig(ctx context.Context) ([]ConfigItem, error) {
	const endpoint = "gameConfig.getGameConfig"
	raw, err := c.Request(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	cfg, err := decodeInto[GameConfig](raw, endpoint)
	if err != nil || cfg == nil {
		return nil, err
	}

	if len(cfg.Items) == 0 {
		return nil, nil
	}

	var asList []ConfigItem
	if err := json.Unmarshal(cfg.Items, &asList); err == nil {
		return asList, nil
	}

	var asMap map[string]ConfigItem
	if err := json.Unmarshal(cfg.Items, &asMap); err != nil {
		return nil, fmt.Errorf("%s: decode items: %w", endpoint, err)
	}
	items := make([]ConfigItem, 0, len(asMap))
	for code, item := range asMap {
		if item.Code == "" && item.AltID == "" {
			item.Code = code
		}
		items = append(items, item)
	}
	return items, nil
}

// GetPrices returns the current market price per item code.
func (c *Client) GetPrices(ctx context.Context) (map[string]float64, error) {
	const endpoint = "itemTrading.getPrices"
	raw, err := c.Request(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	prices, err := decodeInto[map[string]float64](raw, endpoint)
	if err != nil || prices == nil {
		return nil, err
	}
	return *prices, nil
}

// GetTopOrdersBatch fetches top order books for several items in one HTTP
// request. The result is positional and nil-padded for items the upstream
// had no book for.
func (c *Client) GetTopOrdersBatch(ctx context.Context, itemCodes []string, limit int) ([]*TopOrders, error) {
	const endpoint = "tradingOrder.getTopOrders"

	calls := make([]Call, len(itemCodes))
	for i, code := range itemCodes {
		calls[i] = Call{Endpoint: endpoint, Params: map[string]any{"itemCode": code, "limit": limit}}
	}

	results, err := c.BatchRequest(ctx, calls)
	if err != nil {
		return nil, err
	}

	books := make([]*TopOrders, len(itemCodes))
	for i := range itemCodes {
		if i >= len(results) || len(results[i]) == 0 {
			continue
		}
		book, err := decodeInto[TopOrders](results[i], endpoint)
		if err != nil {
			c.log.Warn(component, "Order book decode failed: item=%s err=%v", itemCodes[i], err)
			continue
		}
		books[i] = book
	}
	return books, nil
}

func (c *Client) GetRegionByID(ctx context.Context, regionID string) (*Region, error) {
	const endpoint = "region.getById"
	raw, err := c.Request(ctx, endpoint, map[string]any{"regionId": regionID})
	if err != nil {
		return nil, err
	}
	return decodeInto[Region](raw, endpoint)
}

func (c *Client) GetCountryByID(ctx context.Context, countryID string) (*Country, error) {
	const endpoint = "country.getCountryById"
	raw, err := c.Request(ctx, endpoint, map[string]any{"countryId": countryID})
	if err != nil {
		return nil, err
	}
	return decodeInto[Country](raw, endpoint)
}

func (c *Client) GetPartyByID(ctx context.Context, partyID string) (*Party, error) {
	const endpoint = "party.getById"
	raw, err := c.Request(ctx, endpoint, map[string]any{"partyId": partyID})
	if err != nil {
		return nil, err
	}
	return decodeInto[Party](raw, endpoint)
}
