package domain

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"example.com/tracker/internal/observability"
)

// ResolveReminder surfaces the most recently elapsed plan for userID, then
// purges every plan older than the cutoff (now minus one full day).
//
// The purge is unconditional once a reminder is found: all stale plans for
// the user vanish, not just the one returned. Callers that resolve twice
// without acting on the first result still lose the backlog.
//
// The select-then-delete sequence is two round trips, not a transaction.
// Concurrent resolves for the same user may return the same reminder twice;
// the predicate delete keeps the store consistent either way.
func (s *Service) ResolveReminder(ctx context.Context, userID string, now int64) (*ActivityRecord, error) {
	planned, err := s.activities.FindPlannedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch planned activities: %w", err)
	}

	cutoff := now - MillisPerDay

	var reminder *ActivityRecord
	for i := range planned {
		if planned[i].Date >= cutoff {
			continue
		}
		if reminder == nil || planned[i].Date > reminder.Date {
			reminder = &planned[i]
		}
	}

	if reminder == nil {
		return nil, nil
	}

	// Availability over strictness: the reminder was already picked, so a
	// failed purge only delays cleanup until the next resolve.
	if err := s.activities.DeletePlannedOlderThan(ctx, cutoff, userID); err != nil {
		s.logger.Warn("stale plan purge failed",
			zap.String("user_id", userID),
			zap.Int64("cutoff", cutoff),
			zap.Error(err))
	}

	observability.RecordReminderResolved()

	out := *reminder
	return &out, nil
}
