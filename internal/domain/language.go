package domain

import "fmt"

// Language selects which of the portal's two name columns a scrape records.
// The identifiers are the same in either mode; only names differ.
type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

// ParseLanguage maps the CLI's optional positional argument to a Language.
// An empty argument selects Arabic, the portal's default; "ar" is accepted as
// the explicit spelling of the same.
func ParseLanguage(arg string) (Language, error) {
	switch arg {
	case "", string(Arabic):
		return Arabic, nil
	case string(English):
		return English, nil
	default:
		return "", fmt.Errorf("unknown language %q (want \"en\" or \"ar\")", arg)
	}
}
