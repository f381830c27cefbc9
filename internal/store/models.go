package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NeedsMap maps an input item code to the quantity required per output unit.
// Stored as JSONB in the items table.
type NeedsMap map[string]float64

func (n NeedsMap) Value() (driver.Value, error) {
	if n == nil {
		return nil, nil
	}
	return json.Marshal(n)
}

func (n *NeedsMap) Scan(src interface{}) error {
	if src == nil {
		*n = nil
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for NeedsMap: %T", src)
	}

	return json.Unmarshal(raw, n)
}

type Item struct {
	Code             string   `db:"code" json:"code"`
	Name             string   `db:"name" json:"name"`
	Icon             *string  `db:"icon" json:"icon,omitempty"`
	DisplayOrder     int      `db:"display_order" json:"order"`
	ProductionPoints float64  `db:"production_points" json:"productionPoints"`
	ProductionNeeds  NeedsMap `db:"production_needs" json:"productionNeeds,omitempty"`
}

type Company struct {
	CompanyID            string    `db:"company_id" json:"companyId"`
	UserID               string    `db:"user_id" json:"userId"`
	Name                 string    `db:"name" json:"name"`
	Type                 string    `db:"type" json:"type"`
	Region               string    `db:"region" json:"region"`
	ProductionValue      float64   `db:"production_value" json:"productionValue"`
	MaxProduction        int       `db:"max_production" json:"maxProduction"`
	EnergyConsumption    float64   `db:"energy_consumption" json:"energyConsumption"`
	AutomatedEngineLevel int       `db:"automated_engine_level" json:"automatedEngineLevel"`
	LastFetched          time.Time `db:"last_fetched" json:"lastFetched"`
}

type Worker struct {
	WorkerID   string  `db:"worker_id" json:"workerId"`
	CompanyID  string  `db:"company_id" json:"-"`
	UserID     string  `db:"user_id" json:"userId"`
	Username   string  `db:"username" json:"username"`
	AvatarURL  *string `db:"avatar_url" json:"avatarUrl,omitempty"`
	Wage       float64 `db:"wage" json:"wage"`
	MaxEnergy  float64 `db:"max_energy" json:"maxEnergy"`
	Production float64 `db:"production" json:"production"`
	Fidelity   float64 `db:"fidelity" json:"fidelity"`
}

type PricePoint struct {
	ID         int64     `db:"id" json:"id"`
	ItemCode   string    `db:"item_code" json:"itemCode"`
	Price      float64   `db:"price" json:"price"`
	Volume     float64   `db:"volume" json:"volume"`
	HighestBuy *float64  `db:"highest_buy" json:"highestBuy,omitempty"`
	LowestSell *float64  `db:"lowest_sell" json:"lowestSell,omitempty"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}

var (
	OrderTypeBuy  = "buy"
	OrderTypeSell = "sell"
)

type TradingOrder struct {
	ID        int64     `db:"id" json:"id"`
	ItemCode  string    `db:"item_code" json:"itemCode"`
	Type      string    `db:"type" json:"type"`
	Price     float64   `db:"price" json:"price"`
	Quantity  float64   `db:"quantity" json:"quantity"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

type ProductionRecord struct {
	CompanyID  string    `db:"company_id" json:"companyId"`
	Date       time.Time `db:"date" json:"date"`
	ActualPP   float64   `db:"actual_pp" json:"actualPP"`
	ExpectedPP float64   `db:"expected_pp" json:"expectedPP"`
	Variance   float64   `db:"variance" json:"variance"`
}
