// Package domain defines the business logic for the activity tracker.
package domain

import (
	"context"
	"errors"
)

var (
	// ErrProfileNotFound is returned when no profile row exists for a user.
	ErrProfileNotFound = errors.New("profile not found")
)

const (
	// PlannedAmount marks a record as a plan that has not been completed yet.
	PlannedAmount = float64(-1)

	// MillisPerDay is one calendar day expressed in epoch milliseconds.
	MillisPerDay = int64(86400000)

	// FallbackActivity matches nothing; used when the store holds no records
	// to default the week filter from.
	FallbackActivity = "none"
)

// ActivityRecord is a single logged or planned activity. Records are
// immutable once inserted; ID is the only handle used for deletion.
type ActivityRecord struct {
	ID       int64   `json:"rowIdNum"`
	Activity string  `json:"activity"`
	Date     int64   `json:"date"`
	Amount   float64 `json:"amount"`
	UserID   string  `json:"userid"`
}

// Planned reports whether the record is a pending plan.
func (r ActivityRecord) Planned() bool {
	return r.Amount == PlannedAmount
}

// UserProfile holds the identity-provider subject id and display name.
type UserProfile struct {
	UserID    string `json:"userid"`
	FirstName string `json:"firstname"`
}

// ActivityRepository captures persistence operations over activity records.
// Each method maps to exactly one underlying query.
type ActivityRepository interface {
	InsertActivity(ctx context.Context, rec ActivityRecord) (int64, error)
	FindPlannedByUser(ctx context.Context, userID string) ([]ActivityRecord, error)
	FindByActivityType(ctx context.Context, activity string) ([]ActivityRecord, error)
	FindByActivityTypeDateRangeUser(ctx context.Context, activity string, minDate, maxDate int64, userID string) ([]ActivityRecord, error)
	// FindMostRecentGlobal returns the most recently inserted record across
	// the whole store, deliberately not scoped to any user. Returns nil when
	// the store is empty.
	FindMostRecentGlobal(ctx context.Context) (*ActivityRecord, error)
	DeletePlannedOlderThan(ctx context.Context, cutoff int64, userID string) error
	DeleteByID(ctx context.Context, id int64, userID string) error
	DeleteAll(ctx context.Context) error
}

// ProfileRepository captures persistence operations over user profiles.
type ProfileRepository interface {
	// FindOrCreate inserts a profile row unless one already exists for userID.
	FindOrCreate(ctx context.Context, userID, firstName string) error
	// Find returns nil when no profile exists.
	Find(ctx context.Context, userID string) (*UserProfile, error)
}

// EventPublisher emits notifications about completed activity records.
type EventPublisher interface {
	ActivityLogged(ctx context.Context, rec ActivityRecord) error
}
