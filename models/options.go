package models

import (
	"net/url"
	"strconv"
)

// SortDirection is the requested ordering of a collection query.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Sort names the field a collection should be ordered by.
type Sort struct {
	Field     string
	Direction SortDirection
}

// FindAllOptions narrows a collection request. Zero values mean "not set"
// and are omitted from the generated query string entirely.
type FindAllOptions struct {
	// CurrentPage is 1-based; it is translated to the wire's 0-based page
	// parameter.
	CurrentPage     int
	ElementsPerPage int
	Sort            *Sort
	StartsWith      string
}

// IsZero reports whether no option has been set.
func (o FindAllOptions) IsZero() bool {
	return o.CurrentPage == 0 && o.ElementsPerPage == 0 && o.Sort == nil && o.StartsWith == ""
}

// QueryValues composes the options into URL query parameters. Only options
// that were explicitly set contribute a parameter.
func (o FindAllOptions) QueryValues() url.Values {
	values := url.Values{}
	if o.CurrentPage > 0 {
		values.Set("page", strconv.Itoa(o.CurrentPage-1))
	}
	if o.ElementsPerPage > 0 {
		values.Set("size", strconv.Itoa(o.ElementsPerPage))
	}
	if o.Sort != nil {
		sort := o.Sort.Field
		if o.Sort.Direction != "" {
			sort += "," + string(o.Sort.Direction)
		}
		values.Set("sort", sort)
	}
	if o.StartsWith != "" {
		values.Set("startsWith", o.StartsWith)
	}
	return values
}
