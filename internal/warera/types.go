package warera

import "encoding/json"

// Call is one logical upstream invocation inside a batch.
type Call struct {
	Endpoint string
	Params   any
}

// envelope is the tRPC-style wrapper around every call result.
type envelope struct {
	Result struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
	Error json.RawMessage `json:"error"`
}

type CompanyPage struct {
	Items      []string `json:"items"`
	NextCursor string   `json:"nextCursor"`
}

type Company struct {
	ID                  string         `json:"_id"`
	AltID               string         `json:"id"`
	Name                string         `json:"name"`
	ItemCode            string         `json:"itemCode"`
	Type                string         `json:"type"`
	Region              string         `json:"region"`
	Production          float64        `json:"production"`
	ActiveUpgradeLevels map[string]int `json:"activeUpgradeLevels"`
}

func (c Company) CompanyID() string {
	if c.ID != "" {
		return c.ID
	}
	return c.AltID
}

// OutputItem resolves the produced item code, preferring itemCode over the
// legacy type field.
func (c Company) OutputItem() string {
	if c.ItemCode != "" {
		return c.ItemCode
	}
	return c.Type
}

func (c Company) StorageLevel() int {
	return c.ActiveUpgradeLevels["storage"]
}

func (c Company) AutomatedEngineLevel() int {
	return c.ActiveUpgradeLevels["automatedEngine"]
}

type WorkOffer struct {
	ProductionValue   float64 `json:"productionValue"`
	EnergyConsumption float64 `json:"energyConsumption"`
}

type WorkerList struct {
	Workers []WorkerRef `json:"workers"`
}

type WorkerRef struct {
	ID        string  `json:"_id"`
	AltID     string  `json:"id"`
	User      string  `json:"user"`
	AltUserID string  `json:"userId"`
	Wage      float64 `json:"wage"`
}

func (w WorkerRef) WorkerID() string {
	if w.ID != "" {
		return w.ID
	}
	return w.AltID
}

func (w WorkerRef) UserID() string {
	if w.User != "" {
		return w.User
	}
	return w.AltUserID
}

type Skill struct {
	Total float64 `json:"total"`
}

type UserLite struct {
	Username  string           `json:"username"`
	AvatarURL string           `json:"avatarUrl"`
	Skills    map[string]Skill `json:"skills"`
}

func (u UserLite) Skill(name string) float64 {
	return u.Skills[name].Total
}

type GameConfig struct {
	Items json.RawMessage `json:"items"`
}

type ConfigItem struct {
	Code             string             `json:"code"`
	AltID            string             `json:"id"`
	Name             string             `json:"name"`
	DisplayName      string             `json:"displayName"`
	Icon             string             `json:"icon"`
	IconURL          string             `json:"iconUrl"`
	ProductionPoints float64            `json:"productionPoints"`
	ProductionNeeds  map[string]float64 `json:"productionNeeds"`
}

func (i ConfigItem) ItemCode() string {
	if i.Code != "" {
		return i.Code
	}
	return i.AltID
}

func (i ConfigItem) ItemName() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.DisplayName != "":
		return i.DisplayName
	default:
		return i.ItemCode()
	}
}

func (i ConfigItem) ItemIcon() string {
	if i.Icon != "" {
		return i.Icon
	}
	return i.IconURL
}

type TopOrders struct {
	BuyOrders  []Order `json:"buyOrders"`
	SellOrders []Order `json:"sellOrders"`
}

type Order struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

type Region struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type Country struct {
	ID                 string `json:"_id"`
	Name               string `json:"name"`
	Code               string `json:"code"`
	SpecializedItem    string `json:"specializedItem"`
	RulingParty        string `json:"rulingParty"`
	StrategicResources struct {
		Bonuses struct {
			ProductionPercent float64 `json:"productionPercent"`
		} `json:"bonuses"`
	} `json:"strategicResources"`
}

type Party struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Ethics Ethics `json:"ethics"`
}

// Ethics carries the ruling party's ideology levels. Zero means the ethic is
// not adopted.
type Ethics struct {
	Militarism    int `json:"militarism"`
	Isolationism  int `json:"isolationism"`
	Imperialism   int `json:"imperialism"`
	Industrialism int `json:"industrialism"`
	Agrarianism   int `json:"agrarianism"`
}

// Levels returns the non-structural view used when iterating every ethic.
func (e Ethics) Levels() map[string]int {
	return map[string]int{
		"militarism":    e.Militarism,
		"isolationism":  e.Isolationism,
		"imperialism":   e.Imperialism,
		"industrialism": e.Industrialism,
		"agrarianism":   e.Agrarianism,
	}
}

func (e Ethics) IsZero() bool {
	return e == Ethics{}
}
