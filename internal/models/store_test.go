package models

import (
	"reflect"
	"sync"
	"testing"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func seedRecords() []Record {
	return []Record{
		{ID: 1, Title: "Attack on Titan", Type: "Anime", Episodes: intPtr(25), Status: StatusCompleted, RowIndex: 2},
		{ID: 2, Title: "Dune", Type: "Film", Status: StatusPlanned, RowIndex: 3},
		{ID: 3, Title: "Severance", Type: "Series", Episodes: intPtr(9), Status: StatusWatching, RowIndex: 4},
		{ID: 4, Title: "Oppenheimer", Type: "Film", Date: strPtr("2024-03-01"), Status: StatusCompleted, RowIndex: 5},
	}
}

func TestSnapshotIsIndependentOfLiveStore(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(seedRecords())

	snapshot := store.Snapshot()

	// Mutate the live store, including a nested pointer field.
	edited, _ := store.Get(1)
	edited.Title = "changed"
	*edited.Episodes = 99
	store.Upsert(edited)
	store.RemoveByID(2)

	if snapshot[0].Title != "Attack on Titan" {
		t.Errorf("snapshot title changed to %q", snapshot[0].Title)
	}
	if *snapshot[0].Episodes != 25 {
		t.Errorf("snapshot episodes changed to %d", *snapshot[0].Episodes)
	}
	if len(snapshot) != 4 {
		t.Errorf("snapshot length changed to %d", len(snapshot))
	}

	// And the other direction: scribbling on the snapshot must not leak in.
	*snapshot[2].Episodes = 1
	got, _ := store.Get(3)
	if *got.Episodes != 9 {
		t.Errorf("store episodes changed to %d via snapshot", *got.Episodes)
	}
}

func TestRestoreReturnsExactPreMutationState(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(seedRecords())

	snapshot := store.Snapshot()
	store.RemoveByID(2)
	store.Reindex()
	store.Restore(snapshot)

	if !reflect.DeepEqual(store.All(), seedRecords()) {
		t.Errorf("restored store differs from original: %+v", store.All())
	}
}

func TestReindexAfterDelete(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(seedRecords())

	store.RemoveByID(2)
	store.Reindex()

	records := store.All()
	wantTitles := []string{"Attack on Titan", "Severance", "Oppenheimer"}
	for i, r := range records {
		if r.ID != i+1 {
			t.Errorf("record %d: id = %d, want %d", i, r.ID, i+1)
		}
		if r.RowIndex != i+2 {
			t.Errorf("record %d: rowIndex = %d, want %d", i, r.RowIndex, i+2)
		}
		if r.Title != wantTitles[i] {
			t.Errorf("record %d: title = %q, want %q", i, r.Title, wantTitles[i])
		}
	}
}

func TestReindexCoversDisplaySortedStore(t *testing.T) {
	// The store may be ordered by a display column rather than by id when a
	// delete happens; reindexing still has to renumber every record.
	store := NewStore()
	store.ReplaceAll([]Record{
		{ID: 3, Title: "C", RowIndex: 4},
		{ID: 1, Title: "A", RowIndex: 2},
		{ID: 2, Title: "B", RowIndex: 3},
	})

	store.RemoveByID(1)
	store.Reindex()

	records := store.All()
	if records[0].ID != 1 || records[0].Title != "C" {
		t.Errorf("first record = %+v, want id 1 title C", records[0])
	}
	if records[1].ID != 2 || records[1].Title != "B" {
		t.Errorf("second record = %+v, want id 2 title B", records[1])
	}
	if records[0].RowIndex != 2 || records[1].RowIndex != 3 {
		t.Errorf("rowIndexes = %d,%d, want 2,3", records[0].RowIndex, records[1].RowIndex)
	}
}

func TestNextID(t *testing.T) {
	store := NewStore()
	if got := store.NextID(); got != 1 {
		t.Errorf("empty store NextID = %d, want 1", got)
	}

	store.ReplaceAll([]Record{{ID: 3}, {ID: 7}, {ID: 1}})
	if got := store.NextID(); got != 8 {
		t.Errorf("NextID = %d, want 8", got)
	}
}

func TestUpsertReplacesInPlace(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(seedRecords())

	store.Upsert(Record{ID: 2, Title: "Dune: Part Two", RowIndex: 3})

	records := store.All()
	if records[1].Title != "Dune: Part Two" {
		t.Errorf("record 2 title = %q", records[1].Title)
	}
	if len(records) != 4 {
		t.Errorf("upsert of existing id changed length to %d", len(records))
	}

	store.Upsert(Record{ID: 5, Title: "New"})
	if store.Len() != 5 {
		t.Errorf("upsert of new id: length = %d, want 5", store.Len())
	}
}

func TestConcurrentReadsDuringReplaceAll(t *testing.T) {
	// A background refresh swaps the contents while other goroutines keep
	// reading; the race detector flags any unguarded access.
	store := NewStore()
	store.ReplaceAll(seedRecords())

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = store.All()
					_, _ = store.Get(1)
					_ = store.Len()
					_ = store.NextID()
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		store.ReplaceAll(seedRecords())
	}
	close(stop)
	wg.Wait()

	if store.Len() != 4 {
		t.Errorf("store length = %d, want 4", store.Len())
	}
}

func TestDenseIDsAfterAddDeleteSequence(t *testing.T) {
	store := NewStore()
	for i := 0; i < 5; i++ {
		store.Upsert(Record{ID: store.NextID()})
	}
	store.RemoveByID(2)
	store.Reindex()
	store.Upsert(Record{ID: store.NextID()})
	store.RemoveByID(5)
	store.Reindex()

	records := store.All()
	for i, r := range records {
		if r.ID != i+1 {
			t.Fatalf("ids not dense: position %d has id %d", i, r.ID)
		}
	}
}
