package filter

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/orderdesk/orderdesk/internal/domain"
)

const (
	UsernameMinLen = 2
	UsernameMaxLen = 50
)

// RawParams are the unparsed filter query parameters.
type RawParams struct {
	StatusSlug string
	ServiceID  string
	Mode       string
	Search     string
	SearchType string
}

// FieldError is a recoverable, field-level validation message. The listing
// still renders with the offending filter dropped.
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

// ErrStatusNotFound is returned when the status slug maps to no known
// status. The route itself is considered absent, not merely invalid.
type ErrStatusNotFound struct {
	Slug string
}

func (e *ErrStatusNotFound) Error() string {
	return "status " + strconv.Quote(e.Slug) + " not found"
}

// Parse validates and normalizes raw filter parameters. Field-level failures
// are collected, the offending filter is dropped, and the rest of the
// criteria stays usable. An unknown status slug is the one fatal case.
func Parse(raw RawParams) (Criteria, []FieldError, error) {
	var (
		c    Criteria
		errs []FieldError
	)

	if raw.StatusSlug != "" {
		status, ok := domain.StatusFromSlug(raw.StatusSlug)
		if !ok {
			return Criteria{}, nil, &ErrStatusNotFound{Slug: raw.StatusSlug}
		}
		c.Status = &status
	}

	if raw.ServiceID != "" {
		id, err := strconv.ParseInt(raw.ServiceID, 10, 64)
		if err != nil || id < 1 {
			errs = append(errs, FieldError{Field: "service_id", Code: "service_id.invalid"})
		} else {
			c.ServiceID = &id
		}
	}

	if raw.Mode != "" {
		v, err := strconv.Atoi(raw.Mode)
		if err != nil {
			errs = append(errs, FieldError{Field: "mode", Code: "mode.invalid"})
		} else if mode, ok := domain.ModeFromValue(v); ok {
			c.Mode = &mode
		} else {
			errs = append(errs, FieldError{Field: "mode", Code: "mode.invalid"})
		}
	}

	search := strings.TrimSpace(raw.Search)
	if search != "" {
		searchType, searchErrs := validateSearch(search, raw.SearchType)
		if len(searchErrs) > 0 {
			errs = append(errs, searchErrs...)
		} else {
			c.Search = search
			c.SearchType = searchType
			// An active search narrows the set enough that the
			// drill-down filters no longer apply.
			c.ServiceID = nil
			c.Mode = nil
		}
	}

	return c, errs, nil
}

func validateSearch(search, rawType string) (domain.SearchType, []FieldError) {
	v, err := strconv.Atoi(rawType)
	if err != nil {
		return 0, []FieldError{{Field: "search_type", Code: "search_type.invalid"}}
	}
	searchType, ok := domain.SearchTypeFromValue(v)
	if !ok {
		return 0, []FieldError{{Field: "search_type", Code: "search_type.invalid"}}
	}

	switch searchType {
	case domain.SearchByID:
		id, err := strconv.ParseInt(search, 10, 64)
		if err != nil {
			return 0, []FieldError{{Field: "search", Code: "order_id.not_numeric"}}
		}
		if id < 1 {
			return 0, []FieldError{{Field: "search", Code: "order_id.positive"}}
		}
	case domain.SearchByLink:
		if !validLink(search) {
			return 0, []FieldError{{Field: "search", Code: "link.invalid"}}
		}
	case domain.SearchByUsername:
		length := utf8.RuneCountInString(search)
		if length < UsernameMinLen {
			return 0, []FieldError{{Field: "search", Code: "username.too_short"}}
		}
		if length > UsernameMaxLen {
			return 0, []FieldError{{Field: "search", Code: "username.too_long"}}
		}
	}

	return searchType, nil
}

func validLink(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
