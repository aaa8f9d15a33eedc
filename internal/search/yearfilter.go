// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	yearRangeRe  = regexp.MustCompile(`^(\d{4})\s*-\s*(\d{4})$`)
	yearBoundRe  = regexp.MustCompile(`^(>=|<=|>|<)\s*(\d{4})$`)
	yearSingleRe = regexp.MustCompile(`^\d{4}$`)
)

// ConvertYearFilter translates a user-facing year filter into the
// open-ended range syntax the catalog's publication_year filter accepts:
//
//	>=2020    ->  2020-
//	<=2020    ->  -2020
//	>2020     ->  2021-
//	<2020     ->  -2019
//	2020-2023 ->  2020-2023
//	2020      ->  2020
//
// An empty filter converts to the empty string. Anything else is an
// ErrInvalidQuery: a malformed filter sent upstream would silently match
// nothing, which is worse than failing loudly here.
func ConvertYearFilter(filter string) (string, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return "", nil
	}

	if yearSingleRe.MatchString(filter) {
		return filter, nil
	}
	if m := yearRangeRe.FindStringSubmatch(filter); m != nil {
		return m[1] + "-" + m[2], nil
	}
	if m := yearBoundRe.FindStringSubmatch(filter); m != nil {
		year, _ := strconv.Atoi(m[2])
		switch m[1] {
		case ">=":
			return fmt.Sprintf("%d-", year), nil
		case "<=":
			return fmt.Sprintf("-%d", year), nil
		case ">":
			return fmt.Sprintf("%d-", year+1), nil
		case "<":
			return fmt.Sprintf("-%d", year-1), nil
		}
	}
	return "", fmt.Errorf("%w: unrecognized year filter %q", ErrInvalidQuery, filter)
}
