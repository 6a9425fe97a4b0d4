package domain

import (
	"log/slog"
	"sort"
	"strconv"
)

// BuildStats summarizes what assembly kept and dropped.
type BuildStats struct {
	Regions       int
	Cities        int
	Districts     int
	CitiesSkipped int
}

// BuildSnapshot assembles flat fetch results into the region tree.
//
// Cities referencing a region outside the known set are logged and dropped
// (the portal serves a handful of these). Districts arrive pre-grouped by
// city ID and keep their served order. Regions that end up with no cities
// stay in the snapshot; exports decide what to do with them.
func BuildSnapshot(lang Language, source string, regions []Region, cities []City, districtsByCity map[string][]District, logger *slog.Logger) (*Snapshot, BuildStats) {
	out := make([]Region, len(regions))
	index := make(map[string]*Region, len(regions))
	for i, region := range regions {
		out[i] = Region{ID: region.ID, Name: region.Name, Cities: []City{}}
		index[region.ID] = &out[i]
	}

	stats := BuildStats{Regions: len(out)}
	for _, city := range cities {
		region, ok := index[city.RegionID]
		if !ok {
			logger.Warn("city references unknown region, skipping",
				"city_id", city.ID, "city_name", city.Name, "region_id", city.RegionID)
			stats.CitiesSkipped++
			continue
		}
		city.Districts = append([]District{}, districtsByCity[city.ID]...)
		region.Cities = append(region.Cities, city)
		stats.Cities++
		stats.Districts += len(city.Districts)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return numericLess(out[i].ID, out[j].ID)
	})
	for i := range out {
		cities := out[i].Cities
		sort.SliceStable(cities, func(a, b int) bool {
			if len(cities[a].Districts) != len(cities[b].Districts) {
				return len(cities[a].Districts) > len(cities[b].Districts)
			}
			return numericLess(cities[a].ID, cities[b].ID)
		})
	}

	snapshot := &Snapshot{
		Source:    source,
		Language:  lang,
		ScrapedAt: clock.Now().UTC(),
		Regions:   out,
	}
	return snapshot, stats
}

// numericLess orders ID strings by numeric value. Malformed IDs sort after
// numeric ones, then lexically, so ordering stays deterministic either way.
func numericLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}
