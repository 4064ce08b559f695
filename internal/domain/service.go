package domain

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"example.com/tracker/internal/observability"
)

// Service orchestrates activity-tracking workflows over injected repositories.
type Service struct {
	activities ActivityRepository
	profiles   ProfileRepository
	events     EventPublisher
	logger     *zap.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithEventPublisher enables best-effort activity event publishing.
func WithEventPublisher(events EventPublisher) Option {
	return func(s *Service) { s.events = events }
}

// NewService constructs a Service.
func NewService(activities ActivityRepository, profiles ProfileRepository, opts ...Option) *Service {
	s := &Service{
		activities: activities,
		profiles:   profiles,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LogActivity records a completed activity. The event publish is best-effort;
// a publish failure never fails the insert.
func (s *Service) LogActivity(ctx context.Context, userID, activity string, date int64, amount float64) (ActivityRecord, error) {
	rec := ActivityRecord{
		Activity: activity,
		Date:     date,
		Amount:   amount,
		UserID:   userID,
	}

	id, err := s.activities.InsertActivity(ctx, rec)
	if err != nil {
		return ActivityRecord{}, fmt.Errorf("insert activity: %w", err)
	}
	rec.ID = id
	observability.RecordActivityStored(rec.Date)

	if s.events != nil {
		if err := s.events.ActivityLogged(ctx, rec); err != nil {
			s.logger.Warn("activity event publish failed",
				zap.Int64("row_id", rec.ID),
				zap.Error(err))
		}
	}
	return rec, nil
}

// PlanActivity records a future activity using the planned sentinel amount.
func (s *Service) PlanActivity(ctx context.Context, userID, activity string, date int64) (ActivityRecord, error) {
	rec := ActivityRecord{
		Activity: activity,
		Date:     date,
		Amount:   PlannedAmount,
		UserID:   userID,
	}

	id, err := s.activities.InsertActivity(ctx, rec)
	if err != nil {
		return ActivityRecord{}, fmt.Errorf("insert plan: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// History returns all records of the given activity type.
func (s *Service) History(ctx context.Context, activity string) ([]ActivityRecord, error) {
	return s.activities.FindByActivityType(ctx, activity)
}

// DeleteRecord removes a single record by id, scoped to its owner.
func (s *Service) DeleteRecord(ctx context.Context, id int64, userID string) error {
	return s.activities.DeleteByID(ctx, id, userID)
}

// Reset drops every activity record. Intended for tests and dev tooling only.
func (s *Service) Reset(ctx context.Context) error {
	return s.activities.DeleteAll(ctx)
}

// EnsureProfile creates the profile row for userID if it does not exist.
func (s *Service) EnsureProfile(ctx context.Context, userID, firstName string) error {
	return s.profiles.FindOrCreate(ctx, userID, firstName)
}

// FirstName looks up the stored first name for userID.
func (s *Service) FirstName(ctx context.Context, userID string) (string, error) {
	profile, err := s.profiles.Find(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("find profile: %w", err)
	}
	if profile == nil {
		return "", ErrProfileNotFound
	}
	return profile.FirstName, nil
}
