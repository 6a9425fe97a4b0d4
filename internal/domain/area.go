package domain

import "time"

// Region is a first-level administrative division of Saudi Arabia
// ("emirate" in the portal schema).
type Region struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Cities []City `json:"cities"`
}

// City belongs to exactly one region via RegionID.
type City struct {
	ID        string     `json:"id"`
	RegionID  string     `json:"region_id"`
	Name      string     `json:"name"`
	Districts []District `json:"districts"`
}

// District belongs to exactly one city via CityID.
type District struct {
	ID     string `json:"id"`
	CityID string `json:"city_id"`
	Name   string `json:"name"`
}

// Snapshot is one complete scrape of the hierarchy: every region, every city
// attached to its region, every district attached to its city, with names in
// a single language.
type Snapshot struct {
	Source    string    `json:"source"`
	Language  Language  `json:"language"`
	ScrapedAt time.Time `json:"scraped_at"`
	Regions   []Region  `json:"regions"`
}

// Triple is one (region, city, district) name path through the tree, the row
// unit the workbook stores. District is empty for cities without districts.
type Triple struct {
	Region   string
	City     string
	District string
}

// Triples flattens the tree into the exact row set a workbook export holds.
// Regions without cities contribute nothing (they get no sheet); a city
// without districts contributes one row with an empty district name.
func (s *Snapshot) Triples() []Triple {
	var out []Triple
	for _, region := range s.Regions {
		for _, city := range region.Cities {
			if len(city.Districts) == 0 {
				out = append(out, Triple{Region: region.Name, City: city.Name})
				continue
			}
			for _, district := range city.Districts {
				out = append(out, Triple{Region: region.Name, City: city.Name, District: district.Name})
			}
		}
	}
	return out
}
