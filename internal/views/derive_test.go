package views

import (
	"reflect"
	"testing"

	"github.com/adiwicaksana/filmtrack/internal/models"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func sample() []models.Record {
	return []models.Record{
		{ID: 1, Title: "Attack on Titan", Cast: "", Type: "Anime", Episodes: intPtr(25), Status: models.StatusCompleted},
		{ID: 2, Title: "Dune", Cast: "Timothee Chalamet", Type: "Film", Status: models.StatusPlanned, Date: strPtr("2024-03-01")},
		{ID: 3, Title: "severance", Cast: "Adam Scott", Type: "Series", Episodes: intPtr(9), Status: models.StatusWatching},
		{ID: 4, Title: "Oppenheimer", Cast: "Cillian Murphy", Type: "Film", Status: models.StatusCompleted, Date: strPtr("2023-08-11")},
	}
}

func ids(records []models.Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestSearchMatchesAnyOfTitleCastType(t *testing.T) {
	tests := []struct {
		search string
		want   []int
	}{
		{"anim", []int{1}},      // matches type
		{"chalamet", []int{2}},  // matches cast
		{"SEVER", []int{3}},     // matches title, case-insensitive
		{"film", []int{2, 4}},   // matches type on two records
		{"", []int{1, 2, 3, 4}}, // empty term matches all
		{"zzz", []int{}},        // no match
	}

	for _, tt := range tests {
		got := Derive(sample(), Query{Search: tt.search, SortColumn: ColumnID, SortDirection: Ascending})
		if !reflect.DeepEqual(ids(got), tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
			t.Errorf("search %q: ids = %v, want %v", tt.search, ids(got), tt.want)
		}
	}
}

func TestFiltersAreANDCombined(t *testing.T) {
	q := Query{Search: "o", Status: models.StatusCompleted, Category: "Film", SortColumn: ColumnID}
	got := Derive(sample(), q)
	if len(got) != 1 || got[0].ID != 4 {
		t.Errorf("combined filters: ids = %v, want [4]", ids(got))
	}
}

func TestSentinelAndEmptyFiltersPassEverything(t *testing.T) {
	for _, q := range []Query{
		{Status: AllStatuses, Category: AllCategories},
		{Status: "", Category: ""},
	} {
		got := Derive(sample(), q)
		if len(got) != 4 {
			t.Errorf("query %+v: got %d records, want 4", q, len(got))
		}
	}
}

func TestStatusFilterIsExactMatch(t *testing.T) {
	got := Derive(sample(), Query{Status: models.StatusCompleted, SortColumn: ColumnID})
	if !reflect.DeepEqual(ids(got), []int{1, 4}) {
		t.Errorf("status filter: ids = %v, want [1 4]", ids(got))
	}
}

func TestSortNullsLastBothDirections(t *testing.T) {
	for _, dir := range []Direction{Ascending, Descending} {
		got := Derive(sample(), Query{SortColumn: ColumnDate, SortDirection: dir})
		if len(got) != 4 {
			t.Fatalf("got %d records", len(got))
		}
		// Records 1 and 3 have no date and must come last either way.
		if got[2].Date != nil || got[3].Date != nil {
			t.Errorf("direction %s: dated record sorted after null, order %v", dir, ids(got))
		}
		if got[0].Date == nil || got[1].Date == nil {
			t.Errorf("direction %s: null record sorted first, order %v", dir, ids(got))
		}
	}

	asc := Derive(sample(), Query{SortColumn: ColumnDate, SortDirection: Ascending})
	if asc[0].ID != 4 || asc[1].ID != 2 {
		t.Errorf("ascending date order = %v, want [4 2 ...]", ids(asc))
	}
	desc := Derive(sample(), Query{SortColumn: ColumnDate, SortDirection: Descending})
	if desc[0].ID != 2 || desc[1].ID != 4 {
		t.Errorf("descending date order = %v, want [2 4 ...]", ids(desc))
	}
}

func TestSortIsCaseInsensitive(t *testing.T) {
	got := Derive(sample(), Query{SortColumn: ColumnTitle, SortDirection: Ascending})
	// "severance" (lowercase) sorts between Oppenheimer and nothing, not after
	// every uppercase title.
	want := []int{1, 2, 4, 3}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("title order = %v, want %v", ids(got), want)
	}
}

func TestSortTiesKeepInputOrder(t *testing.T) {
	records := []models.Record{
		{ID: 1, Title: "B", Status: "X"},
		{ID: 2, Title: "A", Status: "X"},
		{ID: 3, Title: "C", Status: "X"},
	}
	got := Derive(records, Query{SortColumn: ColumnStatus, SortDirection: Ascending})
	if !reflect.DeepEqual(ids(got), []int{1, 2, 3}) {
		t.Errorf("tied sort reordered records: %v", ids(got))
	}
}

func TestDeriveIsPure(t *testing.T) {
	records := sample()
	before := make([]models.Record, len(records))
	copy(before, records)

	q := Query{Search: "e", SortColumn: ColumnTitle, SortDirection: Descending}
	first := Derive(records, q)
	second := Derive(records, q)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different outputs")
	}
	if !reflect.DeepEqual(records, before) {
		t.Errorf("Derive mutated its input")
	}

	// Mutating the output must not reach back into the input.
	if len(first) > 0 && first[0].Episodes != nil {
		*first[0].Episodes = 1000
		for _, r := range records {
			if r.Episodes != nil && *r.Episodes == 1000 {
				t.Errorf("output shares pointer state with input")
			}
		}
	}
}

func TestUnknownSortColumnKeepsOrder(t *testing.T) {
	got := Derive(sample(), Query{SortColumn: "bogus"})
	if !reflect.DeepEqual(ids(got), []int{1, 2, 3, 4}) {
		t.Errorf("unknown column reordered records: %v", ids(got))
	}
}
