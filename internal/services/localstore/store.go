// Package localstore is a drop-in stand-in for the sheet API that keeps the
// collection in a local bolt file. It exists for offline use and for testing
// without a deployed Apps Script endpoint, so it deliberately mimics the
// sheet's quirks: rows live at 1-based positions below a header row, and
// deleting a row shifts everything under it up by one.
package localstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/adiwicaksana/filmtrack/internal/auth"
	"github.com/adiwicaksana/filmtrack/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"
)

// firstDataRow is the rowIndex of the first record: row 1 is the header.
const firstDataRow = 2

// Store implements the collection backend against a local bolt file.
type Store struct {
	store  *bolthold.Store
	logger *logrus.Logger
}

// account is a registered local user.
type account struct {
	Username     string `boltholdKey:"Username"`
	PasswordHash []byte
	CreatedAt    time.Time
}

// row is one stored sheet row.
type row struct {
	Key      uint64 `boltholdKey:"Key"`
	Owner    string `boltholdIndex:"Owner"`
	RowIndex int

	No      int
	Judul   string
	Cast    string
	Type    string
	Episode *int
	Status  string
	Date    *string
	Notes   string
	Link    string
}

// Open opens (or creates) the local store at path.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	return &Store{store: store, logger: logger}, nil
}

// Close closes the underlying bolt file.
func (s *Store) Close() error {
	return s.store.Close()
}

// Register creates a local account. The password is stored as a bcrypt hash.
func (s *Store) Register(ctx context.Context, creds auth.Credentials) error {
	var existing account
	err := s.store.Get(creds.User, &existing)
	if err == nil {
		return models.NewRemoteError("username already registered")
	}
	if err != bolthold.ErrNotFound {
		return fmt.Errorf("failed to check account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Pass), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	acct := account{
		Username:     creds.User,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Insert(creds.User, &acct); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.WithField("user", creds.User).Info("Registered local account")
	return nil
}

// Login verifies the credentials.
func (s *Store) Login(ctx context.Context, creds auth.Credentials) error {
	return s.authorize(creds)
}

// Read returns the user's rows in sheet order.
func (s *Store) Read(ctx context.Context, creds auth.Credentials) ([]models.Record, error) {
	if err := s.authorize(creds); err != nil {
		return nil, err
	}

	rows, err := s.ownerRows(creds.User)
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toRecord())
	}
	return records, nil
}

// Add appends the record as a new row at the bottom of the user's sheet.
func (s *Store) Add(ctx context.Context, creds auth.Credentials, record models.Record) error {
	if err := s.authorize(creds); err != nil {
		return err
	}

	rows, err := s.ownerRows(creds.User)
	if err != nil {
		return err
	}

	r := fromRecord(creds.User, record)
	r.RowIndex = firstDataRow + len(rows)
	if err := s.store.Insert(bolthold.NextSequence(), &r); err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}
	return nil
}

// Edit overwrites the row at the record's rowIndex.
func (s *Store) Edit(ctx context.Context, creds auth.Credentials, record models.Record) error {
	if err := s.authorize(creds); err != nil {
		return err
	}

	rows, err := s.ownerRows(creds.User)
	if err != nil {
		return err
	}

	for _, r := range rows {
		if r.RowIndex == record.RowIndex {
			updated := fromRecord(creds.User, record)
			updated.Key = r.Key
			updated.RowIndex = r.RowIndex
			if err := s.store.Update(r.Key, &updated); err != nil {
				return fmt.Errorf("failed to update row: %w", err)
			}
			return nil
		}
	}
	return models.NewRemoteError(fmt.Sprintf("row %d not found", record.RowIndex))
}

// Delete removes the row at rowIndex and shifts the rows below it up by one,
// exactly like deleting a spreadsheet row.
func (s *Store) Delete(ctx context.Context, creds auth.Credentials, rowIndex int) error {
	if err := s.authorize(creds); err != nil {
		return err
	}

	rows, err := s.ownerRows(creds.User)
	if err != nil {
		return err
	}

	found := false
	for _, r := range rows {
		if r.RowIndex == rowIndex {
			if err := s.store.Delete(r.Key, &row{}); err != nil {
				return fmt.Errorf("failed to delete row: %w", err)
			}
			found = true
			break
		}
	}
	if !found {
		return models.NewRemoteError(fmt.Sprintf("row %d not found", rowIndex))
	}

	for _, r := range rows {
		if r.RowIndex > rowIndex {
			r.RowIndex--
			if err := s.store.Update(r.Key, &r); err != nil {
				return fmt.Errorf("failed to shift row: %w", err)
			}
		}
	}
	return nil
}

func (s *Store) authorize(creds auth.Credentials) error {
	var acct account
	err := s.store.Get(creds.User, &acct)
	if err == bolthold.ErrNotFound {
		return models.NewRemoteError("unknown username")
	}
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(creds.Pass)) != nil {
		return models.NewRemoteError("wrong password")
	}
	return nil
}

func (s *Store) ownerRows(user string) ([]row, error) {
	var rows []row
	if err := s.store.Find(&rows, bolthold.Where("Owner").Eq(user)); err != nil {
		return nil, fmt.Errorf("failed to load rows: %w", err)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].RowIndex < rows[j].RowIndex })
	return rows, nil
}

func (r row) toRecord() models.Record {
	rec := models.Record{
		ID:       r.No,
		Title:    r.Judul,
		Cast:     r.Cast,
		Type:     r.Type,
		Status:   r.Status,
		Notes:    r.Notes,
		Link:     r.Link,
		RowIndex: r.RowIndex,
	}
	if r.Episode != nil {
		ep := *r.Episode
		rec.Episodes = &ep
	}
	if r.Date != nil {
		d := *r.Date
		rec.Date = &d
	}
	return rec
}

func fromRecord(owner string, rec models.Record) row {
	r := row{
		Owner:    owner,
		RowIndex: rec.RowIndex,
		No:       rec.ID,
		Judul:    rec.Title,
		Cast:     rec.Cast,
		Type:     rec.Type,
		Status:   rec.Status,
		Notes:    rec.Notes,
		Link:     rec.Link,
	}
	if rec.Episodes != nil {
		ep := *rec.Episodes
		r.Episode = &ep
	}
	if rec.Date != nil {
		d := *rec.Date
		r.Date = &d
	}
	return r
}
