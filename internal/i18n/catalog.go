package i18n

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

const DefaultLocale = "en"

// Catalog holds the translated strings of one locale. Lookups for unknown
// keys return the key itself so a missing translation never blanks a column.
type Catalog struct {
	locale   string
	messages map[string]string
}

// Load reads the embedded catalog for the locale, falling back to the
// default locale when the requested one does not exist.
func Load(locale string) (*Catalog, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	data, err := catalogFS.ReadFile("catalogs/" + locale + ".yaml")
	if err != nil {
		if locale == DefaultLocale {
			return nil, fmt.Errorf("load %s catalog: %w", locale, err)
		}
		return Load(DefaultLocale)
	}

	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse %s catalog: %w", locale, err)
	}

	return &Catalog{locale: locale, messages: messages}, nil
}

func (c *Catalog) Locale() string {
	return c.locale
}

// T translates a message key.
func (c *Catalog) T(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return key
}

// CSVHeaders returns the localized export column names, in column order.
func (c *Catalog) CSVHeaders() []string {
	return []string{
		c.T("csv.id"),
		c.T("csv.user"),
		c.T("csv.link"),
		c.T("csv.quantity"),
		c.T("csv.service"),
		c.T("csv.status"),
		c.T("csv.mode"),
		c.T("csv.created_at"),
	}
}
