package view

import (
	"slices"
	"strings"

	"github.com/thesavant42/psiview/internal/models"
)

// Reduce filters records by every predicate and orders the result by the
// active sort key. The input slice is never modified.
func Reduce(records []models.Record, p models.ViewParameters) []models.Record {
	filtered := make([]models.Record, 0, len(records))
	for _, r := range records {
		if Matches(r, p) {
			filtered = append(filtered, r)
		}
	}

	cmp := comparator(p.SortKey, p.SortDirection)
	if cmp != nil {
		slices.SortStableFunc(filtered, cmp)
	}
	return filtered
}

// comparator returns nil for SortNone, which keeps store order
func comparator(key models.SortKey, dir models.SortDirection) func(a, b models.Record) int {
	desc := dir == models.SortDesc

	switch key {
	case models.SortURL:
		return func(a, b models.Record) int {
			c := strings.Compare(strings.ToLower(a.URL), strings.ToLower(b.URL))
			if desc {
				return -c
			}
			return c
		}
	case models.SortPerformance:
		return scoreComparator(models.CategoryPerformance, desc)
	case models.SortAccessibility:
		return scoreComparator(models.CategoryAccessibility, desc)
	case models.SortLoadTime:
		return numericComparator(func(r models.Record) (float64, bool) { return r.LoadTime() }, desc, true)
	default:
		return nil
	}
}

func scoreComparator(c models.Category, desc bool) func(a, b models.Record) int {
	return numericComparator(func(r models.Record) (float64, bool) {
		s, ok := r.Score(c)
		return float64(s), ok
	}, desc, false)
}

// numericComparator orders by an optional value. Missing values sink to the
// end when the key is in its default direction (desc for scores, asc for load
// time) and move to the front when reversed.
func numericComparator(value func(models.Record) (float64, bool), desc, lowerIsBetter bool) func(a, b models.Record) int {
	missingLast := desc != lowerIsBetter
	return func(a, b models.Record) int {
		av, aok := value(a)
		bv, bok := value(b)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			if missingLast {
				return 1
			}
			return -1
		case !bok:
			if missingLast {
				return -1
			}
			return 1
		}

		c := 0
		if av < bv {
			c = -1
		} else if av > bv {
			c = 1
		}
		if desc {
			return -c
		}
		return c
	}
}
