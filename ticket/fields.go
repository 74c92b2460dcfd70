package ticket

import (
	"errors"
	"fmt"

	"github.com/gi8lino/jiracloud/jira"
)

// Custom fields of the tenant's release note schema.
const (
	FieldDevelopmentDescription = "customfield_10053"
	FieldTitleDE                = "customfield_10055"
	FieldTitleEN                = "customfield_10056"
	FieldSummaryDE              = "customfield_10057"
	FieldSummaryEN              = "customfield_10058"
	FieldDetailsDE              = "customfield_10059"
	FieldDetailsEN              = "customfield_10060"
	FieldReleasePageID          = "customfield_10084"
	FieldTargetVersion          = "customfield_10101"
	FieldChangeNotesTitle       = jira.FieldChangeNotesTitle
	FieldChangeNotesDescription = jira.FieldChangeNotesDetail

	// FeaturesContext is the option context of the features field.
	FeaturesContext = "10287"
)

// ErrUnknownLanguage reports a language other than DE or EN.
var ErrUnknownLanguage = errors.New(`language must be "de" or "en"`)

// Lang selects one of the two release note languages.
type Lang string

const (
	DE Lang = "de"
	EN Lang = "en"
)

// Langs lists all supported languages.
var Langs = []Lang{DE, EN}

// ParseLang validates s as a language.
func ParseLang(s string) (Lang, error) {
	switch l := Lang(s); l {
	case DE, EN:
		return l, nil
	default:
		return "", unknownLanguage(l)
	}
}

// pick returns de or en for lang.
func pick(lang Lang, de, en string) (string, error) {
	switch lang {
	case DE:
		return de, nil
	case EN:
		return en, nil
	default:
		return "", unknownLanguage(lang)
	}
}

func unknownLanguage(l Lang) error { return fmt.Errorf("%w: %q", ErrUnknownLanguage, l) }

func fieldPointer(id string) string { return "/fields/" + id }
