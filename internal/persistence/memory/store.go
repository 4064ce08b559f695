// Package memory provides in-memory repositories mirroring the Postgres
// implementation. Used by tests and local development.
package memory

import (
	"context"
	"sync"

	"example.com/tracker/internal/domain"
)

// Store implements domain.ActivityRepository and domain.ProfileRepository
// against process memory.
type Store struct {
	mu         sync.Mutex
	nextID     int64
	activities []domain.ActivityRecord
	profiles   []domain.UserProfile
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// InsertActivity appends a record and assigns its id.
func (s *Store) InsertActivity(ctx context.Context, rec domain.ActivityRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++
	s.activities = append(s.activities, rec)
	return rec.ID, nil
}

// FindPlannedByUser returns the pending plans belonging to userID.
func (s *Store) FindPlannedByUser(ctx context.Context, userID string) ([]domain.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ActivityRecord
	for _, rec := range s.activities {
		if rec.Planned() && rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindByActivityType returns every record of the given type.
func (s *Store) FindByActivityType(ctx context.Context, activity string) ([]domain.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ActivityRecord
	for _, rec := range s.activities {
		if rec.Activity == activity {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindByActivityTypeDateRangeUser returns userID's records of the given type
// with date in [minDate, maxDate].
func (s *Store) FindByActivityTypeDateRangeUser(ctx context.Context, activity string, minDate, maxDate int64, userID string) ([]domain.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ActivityRecord
	for _, rec := range s.activities {
		if rec.Activity == activity && rec.UserID == userID && rec.Date >= minDate && rec.Date <= maxDate {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindMostRecentGlobal returns the record with the highest id, any user.
func (s *Store) FindMostRecentGlobal(ctx context.Context) (*domain.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *domain.ActivityRecord
	for i := range s.activities {
		if latest == nil || s.activities[i].ID > latest.ID {
			latest = &s.activities[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

// DeletePlannedOlderThan removes userID's plans dated before cutoff.
func (s *Store) DeletePlannedOlderThan(ctx context.Context, cutoff int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.activities[:0]
	for _, rec := range s.activities {
		if rec.Planned() && rec.UserID == userID && rec.Date < cutoff {
			continue
		}
		kept = append(kept, rec)
	}
	s.activities = kept
	return nil
}

// DeleteByID removes a single record, scoped to its owner.
func (s *Store) DeleteByID(ctx context.Context, id int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.activities[:0]
	for _, rec := range s.activities {
		if rec.ID == id && rec.UserID == userID {
			continue
		}
		kept = append(kept, rec)
	}
	s.activities = kept
	return nil
}

// DeleteAll drops every activity record. Profiles are kept, matching the
// Postgres implementation.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities = nil
	return nil
}

// FindOrCreate inserts a profile unless one already exists for userID.
func (s *Store) FindOrCreate(ctx context.Context, userID, firstName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.UserID == userID {
			return nil
		}
	}
	s.profiles = append(s.profiles, domain.UserProfile{UserID: userID, FirstName: firstName})
	return nil
}

// Find returns the profile for userID, or nil when absent.
func (s *Store) Find(ctx context.Context, userID string) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.UserID == userID {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}
