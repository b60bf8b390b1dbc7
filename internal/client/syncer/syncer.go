// Package syncer keeps the locally held profile document and tracked-record
// list in step with the remote store. It is the sole owner of both caches:
// views read copies and request mutations through its methods, and every
// write is followed by a full reload so the caches always mirror remote
// truth. A failed operation leaves the previous cache untouched.
package syncer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/common"
	"github.com/dkarklins/jobfolio/internal/profile"
)

type Synchronizer struct {
	store backend.Store

	mu        sync.RWMutex
	doc       profile.Document
	docLoaded bool
	// persisted tracks whether a profile row exists remotely for the
	// current identity; the application flow's completeness check
	// reads it without a remote round trip.
	persisted bool
	records   []TrackedRecord
}

func New(store backend.Store) *Synchronizer {
	return &Synchronizer{store: store}
}

// Reset drops all cached state, for use when the active session changes.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	s.docLoaded = false
	s.persisted = false
	s.records = nil
}

// --- Profile document ---

// LoadProfile fetches the identity's profile row and merges it over the
// canonical defaults. The absence of a row is a normal outcome: the
// canonical default document is returned and no error is reported.
func (s *Synchronizer) LoadProfile(ctx context.Context, identity backend.Identity) (profile.Document, error) {
	rows, err := s.store.Select(ctx, backend.TableProfiles, backend.Filter{"user_id": identity.ID}, nil)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	var doc profile.Document
	persisted := len(rows) > 0
	if persisted {
		doc = profile.Load(rawSections(rows[0]))
	} else {
		doc = profile.DefaultDocument()
	}

	s.mu.Lock()
	s.doc = doc
	s.docLoaded = true
	s.persisted = persisted
	s.mu.Unlock()

	return doc.Copy(), nil
}

// Profile returns a copy of the cached document and whether one is loaded.
func (s *Synchronizer) Profile() (profile.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.docLoaded {
		return nil, false
	}
	return s.doc.Copy(), true
}

// HasPersistedProfile reports whether a profile row exists remotely for
// the loaded identity.
func (s *Synchronizer) HasPersistedProfile() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persisted
}

// SetProfileField, AppendProfileItem and RemoveProfileItem edit the owned
// document in memory. Nothing is persisted until SaveProfile.

func (s *Synchronizer) SetProfileField(p profile.Path, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.docLoaded {
		return fmt.Errorf("%w: profile not loaded", common.ErrValidation)
	}
	next, err := s.doc.Set(p, v)
	if err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (s *Synchronizer) AppendProfileItem(sec profile.Section, field string, item profile.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.docLoaded {
		return fmt.Errorf("%w: profile not loaded", common.ErrValidation)
	}
	next, err := s.doc.AppendItem(sec, field, item)
	if err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (s *Synchronizer) RemoveProfileItem(sec profile.Section, field string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.docLoaded {
		return fmt.Errorf("%w: profile not loaded", common.ErrValidation)
	}
	next, err := s.doc.RemoveItem(sec, field, index)
	if err != nil {
		return err
	}
	s.doc = next
	return nil
}

// SaveProfile upserts the cached document keyed by the identity, replacing
// any previous revision wholesale, then reloads so the cache reflects what
// the remote store actually holds.
func (s *Synchronizer) SaveProfile(ctx context.Context, identity backend.Identity) error {
	s.mu.RLock()
	loaded := s.docLoaded
	var doc profile.Document
	if loaded {
		doc = s.doc
	}
	s.mu.RUnlock()

	if !loaded {
		return fmt.Errorf("%w: profile not loaded", common.ErrValidation)
	}

	row := backend.Row{
		"user_id":    identity.ID,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	for name, values := range doc.Sections() {
		row[name] = values
	}

	if err := s.store.Upsert(ctx, backend.TableProfiles, row, "user_id"); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	if _, err := s.LoadProfile(ctx, identity); err != nil {
		return err
	}
	return nil
}

// --- Tracked records ---

// LoadRecords fetches the identity's tracked links, newest first, and
// replaces the cache. On failure the prior cache is retained.
func (s *Synchronizer) LoadRecords(ctx context.Context, identity backend.Identity) ([]TrackedRecord, error) {
	order := &backend.Order{Column: "created_at", Descending: true}
	rows, err := s.store.Select(ctx, backend.TableLinks, backend.Filter{"user_id": identity.ID}, order)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	records := make([]TrackedRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromRow(row))
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	return s.Records(), nil
}

// Records returns a copy of the cached record list.
func (s *Synchronizer) Records() []TrackedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TrackedRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.clone())
	}
	return out
}

// RecordByID looks a record up in the cache.
func (s *Synchronizer) RecordByID(id string) (TrackedRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r.clone(), true
		}
	}
	return TrackedRecord{}, false
}

// CreateRecord stores a new tracked link. The URL must be non-empty after
// trimming; the title defaults to the URL; category and tags get the fixed
// classification for this record type.
func (s *Synchronizer) CreateRecord(ctx context.Context, identity backend.Identity, url, title, description string) (TrackedRecord, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return TrackedRecord{}, fmt.Errorf("%w: url is required", common.ErrValidation)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = url
	}

	row := backend.Row{
		"user_id":     identity.ID,
		"url":         url,
		"title":       title,
		"description": strings.TrimSpace(description),
		"category":    RecordCategory,
		"tags":        RecordTags(),
	}

	inserted, err := s.store.Insert(ctx, backend.TableLinks, row)
	if err != nil {
		return TrackedRecord{}, fmt.Errorf("creating record: %w", err)
	}

	if _, err := s.LoadRecords(ctx, identity); err != nil {
		return TrackedRecord{}, err
	}

	created := recordFromRow(inserted)
	if rec, ok := s.RecordByID(created.ID); ok {
		return rec, nil
	}
	return created, nil
}

// DeleteRecord removes the record remotely and reloads the list. The
// filter includes both the record id and the owner, so a non-owner cannot
// remove the row even with a known id.
func (s *Synchronizer) DeleteRecord(ctx context.Context, identity backend.Identity, recordID string) error {
	filter := backend.Filter{"id": recordID, "user_id": identity.ID}
	if err := s.store.Delete(ctx, backend.TableLinks, filter); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	if _, err := s.LoadRecords(ctx, identity); err != nil {
		return err
	}
	return nil
}

// MarkApplied records a submitted application on the remote row: the
// status, the timestamp, a snapshot of the profile document at the time of
// application, and the generated note. The caller (the application flow)
// is responsible for ordering and preconditions.
func (s *Synchronizer) MarkApplied(ctx context.Context, identity backend.Identity, recordID string, snapshot map[string]map[string]any, note string) error {
	patch := backend.Row{
		"application_status":   "applied",
		"applied_at":           time.Now().UTC().Format(time.RFC3339Nano),
		"application_snapshot": snapshot,
		"application_note":     note,
	}
	filter := backend.Filter{"id": recordID, "user_id": identity.ID}

	if _, err := s.store.Update(ctx, backend.TableLinks, patch, filter); err != nil {
		return fmt.Errorf("marking record applied: %w", err)
	}

	if _, err := s.LoadRecords(ctx, identity); err != nil {
		return err
	}
	return nil
}

// rawSections extracts the five document sections from a store row.
func rawSections(row backend.Row) map[profile.Section]map[string]any {
	out := make(map[profile.Section]map[string]any, 5)
	for _, sec := range profile.Sections() {
		value, ok := row[string(sec)]
		if !ok {
			continue
		}
		if m, ok := value.(map[string]any); ok {
			out[sec] = m
		}
	}
	return out
}
