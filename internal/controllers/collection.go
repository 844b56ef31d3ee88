package controllers

import (
	"context"
	"fmt"
	"sync"

	"github.com/adiwicaksana/filmtrack/internal/auth"
	"github.com/adiwicaksana/filmtrack/internal/models"
	"github.com/sirupsen/logrus"
)

// CollectionController coordinates optimistic mutations of the record store.
//
// Every add/edit/delete follows the same shape: take a whole-store snapshot,
// apply the change locally so the caller can re-render immediately, then make
// a single remote call. If the call fails the snapshot is restored and the
// error propagated; the store never stays divergent from the server for
// longer than one failed round trip.
//
// Mutations are serialized: while one is waiting on the network, further
// mutation attempts are rejected with models.ErrMutationInFlight. Two live
// snapshots would corrupt the store, since rolling back the first would
// silently discard the second's applied change.
type CollectionController struct {
	store   *models.Store
	backend Backend
	creds   auth.Credentials
	logger  *logrus.Logger

	mu       sync.Mutex
	inFlight bool

	reconciles sync.WaitGroup
}

// NewCollectionController creates a controller for one authenticated session.
func NewCollectionController(store *models.Store, backend Backend, creds auth.Credentials, logger *logrus.Logger) *CollectionController {
	return &CollectionController{
		store:   store,
		backend: backend,
		creds:   creds,
		logger:  logger,
	}
}

// Load replaces the store with a full read from the backend. Used on session
// start and by the periodic refresh; skipped while a mutation is in flight.
func (c *CollectionController) Load(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	records, err := c.backend.Read(ctx, c.creds)
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	c.store.ReplaceAll(records)

	c.logger.WithField("records", len(records)).Debug("Collection loaded")
	return nil
}

// Records returns the current store contents in store order.
func (c *CollectionController) Records() []models.Record {
	return c.store.All()
}

// Add appends the record with the next dense id, pushes it to the backend and
// rolls the store back if the push fails. On success a background refresh
// picks up the rowIndex the server assigned to the new row.
func (c *CollectionController) Add(ctx context.Context, record models.Record) error {
	if err := c.begin(); err != nil {
		return err
	}

	snapshot := c.store.Snapshot()
	record.ID = c.store.NextID()
	record.RowIndex = 0 // the server assigns the real row
	c.store.Upsert(record)

	if err := c.backend.Add(ctx, c.creds, record); err != nil {
		c.store.Restore(snapshot)
		c.end()
		c.logger.WithError(err).WithField("title", record.Title).Warn("Add failed, rolled back")
		return fmt.Errorf("failed to add record: %w", err)
	}

	c.end()
	c.scheduleReconcile()
	return nil
}

// Edit replaces the record with the same id. The caller does not know the
// record's rowIndex; it is carried forward from the stored record. Editing an
// id that is not in the store is rejected outright, before any local change
// or network call.
func (c *CollectionController) Edit(ctx context.Context, record models.Record) error {
	if err := c.begin(); err != nil {
		return err
	}

	existing, ok := c.store.Get(record.ID)
	if !ok {
		c.end()
		return &models.NotFoundError{ID: record.ID}
	}

	snapshot := c.store.Snapshot()
	record.RowIndex = existing.RowIndex
	c.store.Upsert(record)

	if err := c.backend.Edit(ctx, c.creds, record); err != nil {
		c.store.Restore(snapshot)
		c.end()
		c.logger.WithError(err).WithField("id", record.ID).Warn("Edit failed, rolled back")
		return fmt.Errorf("failed to edit record %d: %w", record.ID, err)
	}

	c.end()
	c.scheduleReconcile()
	return nil
}

// Delete removes the record with the given id, renumbers the remainder to
// mirror the sheet's row shift, and deletes the row remotely using the
// record's pre-removal rowIndex. A failed remote call restores both the
// removal and the renumbering from the one snapshot. Deleting an absent id is
// a no-op. No refresh is needed on success: the reindex already matches what
// the server did.
func (c *CollectionController) Delete(ctx context.Context, id int) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	target, ok := c.store.Get(id)
	if !ok {
		return nil
	}

	snapshot := c.store.Snapshot()
	c.store.RemoveByID(id)
	c.store.Reindex()

	if err := c.backend.Delete(ctx, c.creds, target.RowIndex); err != nil {
		c.store.Restore(snapshot)
		c.logger.WithError(err).WithField("id", id).Warn("Delete failed, rolled back")
		return fmt.Errorf("failed to delete record %d: %w", id, err)
	}

	return nil
}

// BulkDelete removes the given ids one at a time, each delete fully finishing
// before the next starts: every delete shifts the remaining rows, so the next
// one must see the shifted positions. It stops at the first failure and
// returns how many deletes had already committed; those stay committed, only
// the failed one was rolled back.
func (c *CollectionController) BulkDelete(ctx context.Context, ids []int) (int, error) {
	for i, id := range ids {
		if err := c.Delete(ctx, id); err != nil {
			return i, err
		}
	}
	return len(ids), nil
}

// Stats summarizes the collection for the dashboard header.
type Stats struct {
	Total     int
	Completed int
	Watching  int
	Planned   int
}

// Stats counts records by the statuses the dashboard surfaces.
func (c *CollectionController) Stats() Stats {
	stats := Stats{}
	for _, r := range c.store.All() {
		stats.Total++
		switch r.Status {
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusWatching:
			stats.Watching++
		case models.StatusPlanned:
			stats.Planned++
		}
	}
	return stats
}

// Close waits for any background refresh still running. Call on session
// teardown.
func (c *CollectionController) Close() {
	c.reconciles.Wait()
}

func (c *CollectionController) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return models.ErrMutationInFlight
	}
	c.inFlight = true
	return nil
}

func (c *CollectionController) end() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// scheduleReconcile kicks off a best-effort background read so the store
// picks up server-assigned fields (the true rowIndex of a fresh add). Its
// failure is logged and swallowed: the mutation already succeeded. It takes
// the same in-flight guard as mutations and simply gives up if something else
// got there first; the next refresh will catch up.
func (c *CollectionController) scheduleReconcile() {
	c.reconciles.Add(1)
	go func() {
		defer c.reconciles.Done()

		if err := c.begin(); err != nil {
			c.logger.Debug("Skipping refresh, a mutation is in flight")
			return
		}
		defer c.end()

		records, err := c.backend.Read(context.Background(), c.creds)
		if err != nil {
			c.logger.WithError(err).Warn("Background refresh failed")
			return
		}
		c.store.ReplaceAll(records)
	}()
}
