// Package mockspl impersonates the SPL address portal for local
// development and integration tests. It serves the two JSON endpoints the
// scraper posts to, backed by embedded fixtures that keep the portal's
// quirks: identifiers appear both as JSON numbers and as strings, and
// every response carries Arabic and English names side by side.
package mockspl

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

//go:embed fixtures/cities.json
var citiesJSON []byte

//go:embed fixtures/districts.json
var districtsJSON []byte

// districtIndex keeps each fixture record verbatim next to its owning
// city id, so responses preserve the fixtures' mixed number/string ids.
type districtIndex struct {
	records []json.RawMessage
	owners  []string
}

var districts = mustIndexDistricts()

func mustIndexDistricts() districtIndex {
	var records []json.RawMessage
	if err := json.Unmarshal(districtsJSON, &records); err != nil {
		panic(fmt.Sprintf("mockspl: bad districts fixture: %v", err))
	}
	idx := districtIndex{records: records, owners: make([]string, len(records))}
	for i, rec := range records {
		var owner struct {
			CityID json.Number `json:"fkCityID"`
		}
		if err := json.Unmarshal(rec, &owner); err != nil {
			panic(fmt.Sprintf("mockspl: bad district record %d: %v", i, err))
		}
		idx.owners[i] = owner.CityID.String()
	}
	return idx
}

type portal struct {
	logger *slog.Logger
}

// Handler returns the mock portal routes. Point SPL_BASE_URL at a server
// running this handler to scrape without touching the real portal.
func Handler(logger *slog.Logger) http.Handler {
	p := &portal{logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /Home/GetCities", p.handleCities)
	mux.HandleFunc("POST /Home/GetDistricts", p.handleDistricts)
	return mux
}

// handleCities returns every city regardless of the posted cityId. The
// real portal behaves the same way: clients post {"cityId":0}.
func (p *portal) handleCities(w http.ResponseWriter, r *http.Request) {
	if _, ok := p.decodeCityID(w, r); !ok {
		return
	}
	p.logger.Info("mock portal request", "path", r.URL.Path)
	writeBody(w, citiesJSON)
}

func (p *portal) handleDistricts(w http.ResponseWriter, r *http.Request) {
	cityID, ok := p.decodeCityID(w, r)
	if !ok {
		return
	}

	matches := make([]json.RawMessage, 0)
	for i, rec := range districts.records {
		if districts.owners[i] == cityID {
			matches = append(matches, rec)
		}
	}
	p.logger.Info("mock portal request", "path", r.URL.Path, "city_id", cityID, "districts", len(matches))

	body, err := json.Marshal(matches)
	if err != nil {
		http.Error(w, "marshal districts", http.StatusInternalServerError)
		return
	}
	writeBody(w, body)
}

func (p *portal) decodeCityID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		CityID json.Number `json:"cityId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		p.logger.Warn("mock portal rejected request", "path", r.URL.Path, "error", err)
		http.Error(w, "bad request body", http.StatusBadRequest)
		return "", false
	}
	return req.CityID.String(), true
}

func writeBody(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck // nothing to do about a failed mock response
}
