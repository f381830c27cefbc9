package catalog

// Static game tables. These mirror the game client's configuration and only
// change with game patches.

var itemCategories = map[string][]string{
	"Cases": {"case2", "case1"},
	"Craft": {"scraps"},
	"Buffs": {"cocain", "coca"},
	"Ammo":  {"heavyAmmo", "ammo", "lightAmmo", "lead"},
	"Food":  {"cookedFish", "steak", "bread", "fish", "livestock", "grain"},
	"Construction": {
		"oil", "steel", "concrete", "petroleum", "iron", "limestone",
	},
	"Equipment": {
		"knife", "gun", "rifle", "sniper", "tank", "jet",
		"helmet1", "helmet2", "helmet3", "helmet4", "helmet5", "helmet6",
		"chest1", "chest2", "chest3", "chest4", "chest5", "chest6",
		"boots1", "boots2", "boots3", "boots4", "boots5", "boots6",
		"gloves1", "gloves2", "gloves3", "gloves4", "gloves5", "gloves6",
		"pants1", "pants2", "pants3", "pants4", "pants5", "pants6",
	},
}

var categoryByItem = func() map[string]string {
	byItem := make(map[string]string)
	for category, items := range itemCategories {
		for _, item := range items {
			byItem[item] = category
		}
	}
	return byItem
}()

// Category returns the item's category or "" when the item is uncategorized.
func Category(itemCode string) string {
	return categoryByItem[itemCode]
}

var maxProductionByStorageLevel = map[int]int{
	1: 200, 2: 400, 3: 600, 4: 800, 5: 1000,
	6: 1200, 7: 1400, 8: 1600, 9: 1800, 10: 2000,
}

// MaxProduction maps a storage upgrade level to the company's production
// capacity. Unknown levels fall back to the level-1 value.
func MaxProduction(storageLevel int) int {
	if v, ok := maxProductionByStorageLevel[storageLevel]; ok {
		return v
	}
	return maxProductionByStorageLevel[1]
}
