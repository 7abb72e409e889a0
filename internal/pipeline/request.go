// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ashr-exe/icarus-insight/internal/normalize"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

var (
	// ErrEmptyQuery is returned by CheckQuery for a blank query.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrInvalidFilters is returned by ParseFilters for unusable bounds.
	ErrInvalidFilters = errors.New("invalid filters")
)

// CheckQuery rejects blank queries before a run is started. Run itself
// accepts any query and falls back to the default aerospace search.
func CheckQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// ParseFilters builds Filters from caller-supplied strings. Dates accept
// the same layouts as catalogue records; an empty bound stays open.
func ParseFilters(start, end string, orgs, categories []string) (types.Filters, error) {
	var f types.Filters
	if s := strings.TrimSpace(start); s != "" {
		t, err := normalize.ParseDate(s)
		if err != nil {
			return f, fmt.Errorf("%w: start date %q: %w", ErrInvalidFilters, start, err)
		}
		f.DateRange.Start = t
	}
	if e := strings.TrimSpace(end); e != "" {
		t, err := normalize.ParseDate(e)
		if err != nil {
			return f, fmt.Errorf("%w: end date %q: %w", ErrInvalidFilters, end, err)
		}
		f.DateRange.End = t
	}
	if !f.DateRange.Start.IsZero() && !f.DateRange.End.IsZero() && f.DateRange.Start.After(f.DateRange.End) {
		return f, fmt.Errorf("%w: start %s after end %s", ErrInvalidFilters,
			f.DateRange.Start.Format("2006-01-02"), f.DateRange.End.Format("2006-01-02"))
	}
	f.Organizations = types.Distinct(orgs)
	f.TechCategories = types.Distinct(categories)
	return f, nil
}
