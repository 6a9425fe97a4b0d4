// Package domain models the Saudi administrative-area hierarchy served by the
// SPL (Saudi Post) national address maps portal.
//
// # Data Source
//
// The portal at https://maps.splonline.com.sa backs its address-lookup UI with
// two unauthenticated JSON endpoints:
//
//	POST /Home/GetCities     body {"cityId":0}    → every city in the Kingdom
//	POST /Home/GetDistricts  body {"cityId":<id>} → districts of one city
//
// There is no endpoint for the regions themselves; the UI inlines them as a
// <select> element, one <option id=N> per region. The Arabic region names are
// parsed from that markup and the English ones come from a fixed table (see
// the spl adapter).
//
// # Portal Data Conventions
//
// Regions are called "emirates" in the portal schema. There are 13, with
// stable numeric IDs 1–13 (1 Riyadh … 13 Al Jawf).
//
// City records:
//
//	pkCityID     city identifier
//	fkEmirateID  owning region identifier
//	ArabicName / EnglishName
//
// District records:
//
//	pkDistrictID district identifier
//	fkCityID     owning city identifier
//	ArabicName / EnglishName
//
// Identifiers are serialized inconsistently (sometimes numbers, sometimes
// strings), so the adapter decodes them via json.Number and the domain carries
// them as strings. A run records exactly one name per record, chosen by
// [Language]; the identifiers are language-independent, which is what makes
// Arabic and English snapshots of the same data comparable.
//
// Known source quirks, handled leniently because the portal exhibits them in
// practice: a city may reference a region ID outside 1–13 (dropped with a
// warning during assembly), and a district's fkCityID may contradict the city
// it was requested for (dropped with a warning during parsing).
//
// # Ordering
//
// Assembly normalizes order so that two runs over the same data are
// byte-comparable: regions by numeric ID ascending, cities within a region by
// district count descending (ID ascending on ties), districts in the order
// the portal served them.
package domain
