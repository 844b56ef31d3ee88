package models

// Status labels used by the sheet. The set is open-ended: the sheet stores
// whatever string the user picked, these constants only cover the labels the
// dashboard knows how to count.
const (
	StatusCompleted = "Selesai"
	StatusWatching  = "Sedang Ditonton"
	StatusPlanned   = "Rencana"
	StatusOnHold    = "Ditunda"
	StatusDropped   = "Drop"
)

// Record represents one tracked film or series.
//
// ID is the user-facing sequential number (the sheet's "no" column). It is
// dense, 1..N, and reassigned after every delete; it is NOT a stable key.
// RowIndex is the record's address in the backing spreadsheet (header row is
// row 1, so data starts at row 2) and is only used to target edit/delete calls.
type Record struct {
	ID    int
	Title string
	Cast  string
	Type  string

	// Episodes is nil for movies and anything without an episode count.
	Episodes *int

	Status string

	// Date is an ISO date string, nil when the user never set one.
	Date *string

	Notes string
	Link  string

	RowIndex int
}

// Clone returns a copy of the record that shares no mutable state with the
// original. Pointer fields get fresh allocations so a snapshot survives later
// in-place edits.
func (r Record) Clone() Record {
	out := r
	if r.Episodes != nil {
		ep := *r.Episodes
		out.Episodes = &ep
	}
	if r.Date != nil {
		d := *r.Date
		out.Date = &d
	}
	return out
}
