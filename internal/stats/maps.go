package stats

import "cdl-tracker/internal/domain"

// CompetitivePools is the official CDL map pool per mode for the current
// season. Rows outside these pairings (scrims, off-pool maps, unparsed
// names) are excluded from aggregation.
var CompetitivePools = map[string][]string{
	"Hardpoint":        {"Blackheart", "Colossus", "Den", "Exposure", "Scar"},
	"Search & Destroy": {"Colossus", "Den", "Exposure", "Raid", "Scar"},
	"Overload":         {"Den", "Exposure", "Scar"},
}

// FilterCompetitiveMaps keeps only rows whose mode/map combination is in the
// official pool.
func FilterCompetitiveMaps(rows []domain.StatRow) []domain.StatRow {
	out := make([]domain.StatRow, 0, len(rows))
	for _, row := range rows {
		if inPool(row.Stat.Mode, row.Stat.MapName) {
			out = append(out, row)
		}
	}
	return out
}

func inPool(mode, mapName string) bool {
	for _, name := range CompetitivePools[mode] {
		if name == mapName {
			return true
		}
	}
	return false
}
