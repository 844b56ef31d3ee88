package sheets

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/adiwicaksana/filmtrack/internal/models"
)

// apiResponse is the envelope every action returns. Data is only present on
// read; message carries the error text (or a human greeting) otherwise.
type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const statusSuccess = "success"

// sheetRow is one raw row as the Apps Script returns it. The sheet is typed
// loosely: numeric columns may arrive as numbers or strings depending on how
// the cell was last written, so everything questionable decodes into any and
// gets coerced afterwards.
type sheetRow struct {
	No       any    `json:"no"`
	Judul    string `json:"judul"`
	Cast     string `json:"cast"`
	Type     string `json:"type"`
	Episode  any    `json:"episode"`
	Status   string `json:"status"`
	Date     string `json:"date"`
	Notes    string `json:"notes"`
	Link     string `json:"link"`
	RowIndex any    `json:"rowIndex"`
}

// rowPayload is the JSON object sent in the "data" form field for add and
// edit. Field names follow the sheet's column headers.
type rowPayload struct {
	No       int     `json:"no"`
	Judul    string  `json:"judul"`
	Cast     string  `json:"cast"`
	Type     string  `json:"type"`
	Episode  *int    `json:"episode"`
	Status   string  `json:"status"`
	Date     *string `json:"date"`
	Notes    string  `json:"notes"`
	Link     string  `json:"link"`
	RowIndex int     `json:"rowIndex"`
}

func encodeRow(r models.Record) rowPayload {
	return rowPayload{
		No:       r.ID,
		Judul:    r.Title,
		Cast:     r.Cast,
		Type:     r.Type,
		Episode:  r.Episodes,
		Status:   r.Status,
		Date:     r.Date,
		Notes:    r.Notes,
		Link:     r.Link,
		RowIndex: r.RowIndex,
	}
}

// decodeRow maps a raw row onto a Record, defaulting absent optional fields.
// ok is false when the row has no usable "no" value; such rows are skipped
// rather than turned into a record with a garbage id.
func decodeRow(row sheetRow) (models.Record, bool) {
	id, ok := asInt(row.No)
	if !ok {
		return models.Record{}, false
	}

	rec := models.Record{
		ID:     id,
		Title:  row.Judul,
		Cast:   row.Cast,
		Type:   row.Type,
		Status: row.Status,
		Notes:  row.Notes,
		Link:   row.Link,
	}

	// Zero episodes means the column was empty; the sheet has no concept of a
	// zero-episode series.
	if ep, ok := asInt(row.Episode); ok && ep != 0 {
		rec.Episodes = &ep
	}
	if d := strings.TrimSpace(row.Date); d != "" {
		rec.Date = &d
	}
	if ri, ok := asInt(row.RowIndex); ok {
		rec.RowIndex = ri
	}

	return rec, true
}

// asInt coerces the JSON shapes a sheet cell can take into an int.
func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		return int(x), true
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	case int:
		return x, true
	}
	return 0, false
}
