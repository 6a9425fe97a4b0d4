package domain

import "fmt"

// ValidateSnapshot checks the structural invariants of an assembled snapshot
// and returns one message per violation. Exports rely on these holding:
// unique identifiers, non-empty names, and every child record pointing at the
// parent that carries it.
func ValidateSnapshot(s *Snapshot) []string {
	if s == nil {
		return []string{"snapshot is nil"}
	}

	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if s.Language != Arabic && s.Language != English {
		report("language %q is neither %q nor %q", s.Language, Arabic, English)
	}
	if s.ScrapedAt.IsZero() {
		report("scraped_at is zero")
	}

	regionIDs := make(map[string]bool)
	cityIDs := make(map[string]bool)
	districtIDs := make(map[string]bool)
	for _, region := range s.Regions {
		if region.ID == "" {
			report("region %q has no id", region.Name)
		}
		if region.Name == "" {
			report("region %s has no name", region.ID)
		}
		if regionIDs[region.ID] {
			report("duplicate region id %s", region.ID)
		}
		regionIDs[region.ID] = true

		for _, city := range region.Cities {
			if city.ID == "" {
				report("city %q has no id", city.Name)
			}
			if city.Name == "" {
				report("city %s has no name", city.ID)
			}
			if city.RegionID != region.ID {
				report("city %s carries region_id %s but sits under region %s", city.ID, city.RegionID, region.ID)
			}
			if cityIDs[city.ID] {
				report("duplicate city id %s", city.ID)
			}
			cityIDs[city.ID] = true

			for _, district := range city.Districts {
				if district.ID == "" {
					report("district %q has no id", district.Name)
				}
				if district.Name == "" {
					report("district %s has no name", district.ID)
				}
				if district.CityID != city.ID {
					report("district %s carries city_id %s but sits under city %s", district.ID, district.CityID, city.ID)
				}
				if districtIDs[district.ID] {
					report("duplicate district id %s", district.ID)
				}
				districtIDs[district.ID] = true
			}
		}
	}
	return problems
}
