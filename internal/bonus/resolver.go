package bonus

import (
	"context"
	"time"

	"github.com/ivnrby/warera-dashboard/internal/catalog"
	"github.com/ivnrby/warera-dashboard/internal/gamecache"
	"github.com/ivnrby/warera-dashboard/internal/logger"
	"github.com/ivnrby/warera-dashboard/internal/warera"
)

const component = "BonusResolver"

// Breakdown is the per-source composition of a production bonus. Total is
// always the sum of the present components.
type Breakdown struct {
	Total   float64           `json:"total"`
	Country *CountryComponent `json:"country,omitempty"`
	Deposit *DepositComponent `json:"deposit,omitempty"`
	Party   *PartyComponent   `json:"party,omitempty"`
}

type CountryComponent struct {
	Bonus           float64 `json:"bonus"`
	CountryName     string  `json:"countryName"`
	CountryCode     string  `json:"countryCode"`
	SpecializedItem string  `json:"specializedItem"`
}

type DepositComponent struct {
	Bonus       float64   `json:"bonus"`
	DepositType string    `json:"depositType"`
	EndsAt      time.Time `json:"endsAt"`
}

type PartyComponent struct {
	Bonus     float64 `json:"bonus"`
	PartyName string  `json:"partyName"`
	EthicName string  `json:"ethicName"`
}

// API is the slice of the upstream client the resolver needs.
type API interface {
	GetRegionByID(ctx context.Context, regionID string) (*warera.Region, error)
	GetCountryByID(ctx context.Context, countryID string) (*warera.Country, error)
	GetPartyByID(ctx context.Context, partyID string) (*warera.Party, error)
}

// Resolver composes country-specialization and party-ethics bonuses for a
// region and item. Country lookups are cached per clock hour, party lookups
// for a rolling 12 hours. The resolver never fails: any upstream error is
// logged and the breakdown accumulated so far is returned.
type Resolver struct {
	api       API
	log       *logger.Logger
	countries *gamecache.Cache[warera.Country]
	parties   *gamecache.Cache[warera.Party]
	now       func() time.Time
}

func NewResolver(api API, log *logger.Logger) *Resolver {
	return &Resolver{
		api:       api,
		log:       log,
		countries: gamecache.New[warera.Country](256, gamecache.SameClockHour()),
		parties:   gamecache.New[warera.Party](256, gamecache.Window(12*time.Hour)),
		now:       time.Now,
	}
}

func (r *Resolver) CalculateProductionBonus(ctx context.Context, regionID, itemCode string, forceRefresh bool) Breakdown {
	breakdown := Breakdown{}

	region, err := r.api.GetRegionByID(ctx, regionID)
	if err != nil {
		r.log.Error(component, "Failed to resolve region %s: %v", regionID, err)
		return breakdown
	}
	if region == nil || region.Country == "" {
		return breakdown
	}

	country := r.fetchCountry(ctx, region.Country, forceRefresh)
	if country == nil {
		return breakdown
	}

	if country.SpecializedItem == itemCode {
		countryBonus := country.StrategicResources.Bonuses.ProductionPercent
		breakdown.Country = &CountryComponent{
			Bonus:           countryBonus,
			CountryName:     country.Name,
			CountryCode:     country.Code,
			SpecializedItem: country.SpecializedItem,
		}
		breakdown.Total += countryBonus
	}

	if country.RulingParty == "" {
		return breakdown
	}

	party := r.fetchParty(ctx, country.RulingParty, forceRefresh)
	if party == nil || party.Ethics.IsZero() {
		return breakdown
	}

	itemCategory := catalog.Category(itemCode)
	if itemCategory == "" {
		return breakdown
	}

	partyBonus := ProductionBonus(party.Ethics, itemCode, itemCategory)
	if partyBonus <= 0 {
		return breakdown
	}

	breakdown.Party = &PartyComponent{
		Bonus:     partyBonus,
		PartyName: party.Name,
		EthicName: attributedEthic(party.Ethics, itemCategory),
	}
	breakdown.Total += partyBonus

	return breakdown
}

// attributedEthic names the ethic credited for a positive party bonus.
// Industrialism wins for its categories, then Agrarianism.
func attributedEthic(ethics warera.Ethics, itemCategory string) string {
	if ethics.Industrialism > 0 && (itemCategory == "Ammo" || itemCategory == "Construction") {
		return "Industrialism"
	}
	if ethics.Agrarianism > 0 {
		return "Agrarianism"
	}
	return "Unknown"
}

// fetchCountry serves from the hour-epoch cache, hitting the upstream on a
// miss or when forced. Fetch failures leave the cache untouched and resolve
// to nil.
func (r *Resolver) fetchCountry(ctx context.Context, countryID string, force bool) *warera.Country {
	now := r.now()
	if !force {
		if cached, ok := r.countries.Get(countryID, now); ok {
			return &cached
		}
	}

	country, err := r.api.GetCountryByID(ctx, countryID)
	if err != nil {
		r.log.Error(component, "Failed to fetch country %s: %v", countryID, err)
		return nil
	}
	if country == nil {
		return nil
	}

	r.countries.Put(countryID, *country, r.now())
	return country
}

func (r *Resolver) fetchParty(ctx context.Context, partyID string, force bool) *warera.Party {
	now := r.now()
	if !force {
		if cached, ok := r.parties.Get(partyID, now); ok {
			return &cached
		}
	}

	party, err := r.api.GetPartyByID(ctx, partyID)
	if err != nil {
		r.log.Error(component, "Failed to fetch party %s: %v", partyID, err)
		return nil
	}
	if party == nil {
		return nil
	}

	r.parties.Put(partyID, *party, r.now())
	return party
}

// ClearCountry evicts one country, or every country when id is empty.
func (r *Resolver) ClearCountry(id string) {
	if id == "" {
		r.countries.Purge()
		return
	}
	r.countries.Remove(id)
}

// ClearParty evicts one party, or every party when id is empty.
func (r *Resolver) ClearParty(id string) {
	if id == "" {
		r.parties.Purge()
		return
	}
	r.parties.Remove(id)
}

func (r *Resolver) ClearAll() {
	r.countries.Purge()
	r.parties.Purge()
}
