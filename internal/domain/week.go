package domain

import (
	"context"

	"go.uber.org/zap"

	"example.com/tracker/internal/observability"
)

// DayBucket is one daily accumulator in a week chart.
type DayBucket struct {
	Date  int64   `json:"date"`
	Value float64 `json:"value"`
}

// AggregateWeek folds the records of one activity type over the inclusive
// window [endDate-6d, endDate] into 7 day buckets, returned oldest first.
//
// An empty activity defaults to the type of the most recently inserted record
// in the whole store. That lookup is intentionally not scoped to userID (the
// default can reflect another user's last entry); when the store is empty it
// falls back to FallbackActivity, which matches nothing.
//
// Store failures on either fetch degrade to zero-valued buckets rather than
// surfacing an error.
func (s *Service) AggregateWeek(ctx context.Context, activity string, endDate int64, userID string) []DayBucket {
	if activity == "" {
		activity = s.defaultActivity(ctx)
	}

	minDate := endDate - 6*MillisPerDay
	records, err := s.activities.FindByActivityTypeDateRangeUser(ctx, activity, minDate, endDate, userID)
	if err != nil {
		s.logger.Warn("week range fetch failed",
			zap.String("activity", activity),
			zap.String("user_id", userID),
			zap.Error(err))
		records = nil
	}

	// Buckets are built newest first: index i covers endDate - i days.
	buckets := make([]DayBucket, 7)
	for i := range buckets {
		buckets[i] = DayBucket{Date: endDate - int64(i)*MillisPerDay}
	}

	for _, rec := range records {
		if rec.Date > endDate || rec.Date < minDate {
			continue
		}
		idx := (endDate - rec.Date) / MillisPerDay
		buckets[idx].Value += rec.Amount
	}

	// Oldest-to-newest for the caller.
	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}

	observability.RecordWeekAggregated()
	return buckets
}

func (s *Service) defaultActivity(ctx context.Context) string {
	rec, err := s.activities.FindMostRecentGlobal(ctx)
	if err != nil {
		s.logger.Warn("most recent entry lookup failed", zap.Error(err))
		return FallbackActivity
	}
	if rec == nil {
		return FallbackActivity
	}
	return rec.Activity
}
