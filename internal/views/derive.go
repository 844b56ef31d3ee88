// Package views computes the visible projection of the record store: filter by
// search text, status and category, then sort. Everything here is pure; the
// renderer (CLI table, web page) consumes the output without touching store
// state.
package views

import (
	"sort"
	"strings"

	"github.com/adiwicaksana/filmtrack/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sentinel filter values that match everything, mirroring the dashboard's
// default dropdown entries.
const (
	AllStatuses   = "Semua Status"
	AllCategories = "Semua Kategori"
)

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sortable column names.
const (
	ColumnID       = "id"
	ColumnTitle    = "title"
	ColumnCast     = "cast"
	ColumnType     = "type"
	ColumnEpisodes = "episodes"
	ColumnStatus   = "status"
	ColumnDate     = "date"
)

// Query captures the current search/filter/sort state.
type Query struct {
	Search        string
	Status        string
	Category      string
	SortColumn    string
	SortDirection Direction
}

// Derive returns the records that should be visible under the query, in
// display order. The input slice is never modified.
//
// A record passes the search when the term is a case-insensitive substring of
// its title, cast OR type. Status and category are exact matches unless the
// filter is empty or the "all" sentinel. The three predicates are AND-combined.
// Sorting is stable, case-insensitive for strings, and always places records
// with no value for the sort column last, in both directions.
func Derive(records []models.Record, q Query) []models.Record {
	term := strings.ToLower(q.Search)

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if matches(r, term, q.Status, q.Category) {
			out = append(out, r.Clone())
		}
	}

	col := collate.New(language.Und, collate.IgnoreCase)
	desc := q.SortDirection == Descending
	sort.SliceStable(out, func(i, j int) bool {
		return less(col, out[i], out[j], q.SortColumn, desc)
	})

	return out
}

func matches(r models.Record, term, status, category string) bool {
	if term != "" {
		title := strings.ToLower(r.Title)
		cast := strings.ToLower(r.Cast)
		typ := strings.ToLower(r.Type)
		if !strings.Contains(title, term) && !strings.Contains(cast, term) && !strings.Contains(typ, term) {
			return false
		}
	}
	if status != "" && status != AllStatuses && r.Status != status {
		return false
	}
	if category != "" && category != AllCategories && r.Type != category {
		return false
	}
	return true
}

func less(col *collate.Collator, a, b models.Record, column string, desc bool) bool {
	av, aok := fieldValue(a, column)
	bv, bok := fieldValue(b, column)

	// Missing values sink to the bottom regardless of direction.
	if !aok {
		return false
	}
	if !bok {
		return true
	}

	var cmp int
	switch x := av.(type) {
	case int:
		y := bv.(int)
		switch {
		case x < y:
			cmp = -1
		case x > y:
			cmp = 1
		}
	case string:
		cmp = col.CompareString(x, bv.(string))
	}

	if desc {
		return cmp > 0
	}
	return cmp < 0
}

// fieldValue extracts the sort key for a column. ok is false when the record
// has no value there (nil episodes/date, or an unknown column).
func fieldValue(r models.Record, column string) (any, bool) {
	switch column {
	case ColumnID:
		return r.ID, true
	case ColumnTitle:
		return r.Title, true
	case ColumnCast:
		return r.Cast, true
	case ColumnType:
		return r.Type, true
	case ColumnEpisodes:
		if r.Episodes == nil {
			return nil, false
		}
		return *r.Episodes, true
	case ColumnStatus:
		return r.Status, true
	case ColumnDate:
		if r.Date == nil {
			return nil, false
		}
		return *r.Date, true
	}
	return nil, false
}
