// stops.go
package devserver

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// stopColumnName is the header the stop ids are read from, compared loosely.
const stopColumnName = "customerid"

var (
	errNoStops      = errors.New("no stops found")
	errUnknownDepot = errors.New("depot is not one of the stops")
)

// stopColumn returns the index of the CustomerId column, or 0 when there is none.
func stopColumn(sheet Sheet) int {
	for i, h := range sheet.Headers {
		if normalizeHeader(h) == stopColumnName {
			return i
		}
	}

	return 0
}

func normalizeHeader(h string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}

		return -1
	}, h)
}

// extractStops returns the non-blank values of column colIndex in sheet order,
// keeping the first occurrence of each.
func extractStops(sheet Sheet, colIndex int) []string {
	seen := make(map[string]bool)

	var stops []string

	for _, row := range sheet.Rows {
		if colIndex >= len(row) {
			continue
		}

		val := strings.TrimSpace(row[colIndex])
		if val == "" || seen[val] {
			continue
		}

		seen[val] = true
		stops = append(stops, val)
	}

	return stops
}

// buildRoute starts and ends the route at depot and visits the other stops in order.
// An empty depot means the first stop.
func buildRoute(stops []string, depot string) ([]string, error) {
	if len(stops) == 0 {
		return nil, errNoStops
	}

	depot = strings.TrimSpace(depot)
	if depot == "" {
		depot = stops[0]
	}

	route := make([]string, 0, len(stops)+1)
	route = append(route, depot)

	found := false

	for _, stop := range stops {
		if stop == depot {
			found = true

			continue
		}

		route = append(route, stop)
	}

	if !found {
		return nil, fmt.Errorf("%w: %q", errUnknownDepot, depot)
	}

	return append(route, depot), nil
}
