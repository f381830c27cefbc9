package bonus

import (
	"github.com/ivnrby/warera-dashboard/internal/warera"
)

// Ethic definitions: per-level bonus lists with the categories or explicit
// items each bonus applies to. Only "production" bonuses matter for the
// resolver; other bonus kinds are carried for completeness.

type EthicBonus struct {
	Type       string
	Value      float64
	Categories []string
	Items      []string
}

type EthicLevel struct {
	Level   int
	Bonuses []EthicBonus
}

type Ethic struct {
	Name   string
	Levels []EthicLevel
}

func productionLevels(categories []string, perLevel float64, max int) []EthicLevel {
	levels := make([]EthicLevel, 0, max)
	for l := 1; l <= max; l++ {
		levels = append(levels, EthicLevel{
			Level: l,
			Bonuses: []EthicBonus{{
				Type:       "production",
				Value:      perLevel * float64(l),
				Categories: categories,
			}},
		})
	}
	return levels
}

var ethicsTable = map[string]Ethic{
	"agrarianism": {
		Name:   "Agrarianism",
		Levels: productionLevels([]string{"Food"}, 5, 5),
	},
	"industrialism": {
		Name:   "Industrialism",
		Levels: productionLevels([]string{"Ammo", "Construction"}, 5, 5),
	},
}

// ProductionBonus sums every production bonus the party's adopted ethic
// levels grant to the given item or its category. Unknown ethic names and
// missing levels contribute nothing.
func ProductionBonus(partyEthics warera.Ethics, itemCode, itemCategory string) float64 {
	total := 0.0

	for ethicName, level := range partyEthics.Levels() {
		if level == 0 {
			continue
		}

		ethic, ok := ethicsTable[ethicName]
		if !ok {
			continue
		}

		var ethicLevel *EthicLevel
		for i := range ethic.Levels {
			if ethic.Levels[i].Level == level {
				ethicLevel = &ethic.Levels[i]
				break
			}
		}
		if ethicLevel == nil {
			continue
		}

		for _, b := range ethicLevel.Bonuses {
			if b.Type != "production" {
				continue
			}
			if containsString(b.Categories, itemCategory) || containsString(b.Items, itemCode) {
				total += b.Value
			}
		}
	}

	return total
}

func containsString(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
