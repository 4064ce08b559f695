package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/tracker/internal/domain"
	"example.com/tracker/internal/persistence/memory"
)

func seedActivity(t *testing.T, store *memory.Store, userID, activity string, date int64, amount float64) {
	t.Helper()
	_, err := store.InsertActivity(context.Background(), domain.ActivityRecord{
		Activity: activity,
		Date:     date,
		Amount:   amount,
		UserID:   userID,
	})
	require.NoError(t, err)
}

func TestAggregateWeekShapeAndOrdering(t *testing.T) {
	store := memory.NewStore()
	service := domain.NewService(store, store)
	end := 100 * day

	buckets := service.AggregateWeek(context.Background(), "Walk", end, "u1")

	require.Len(t, buckets, 7)
	require.Equal(t, end-6*day, buckets[0].Date)
	require.Equal(t, end, buckets[6].Date)
	for i := 1; i < len(buckets); i++ {
		require.Greater(t, buckets[i].Date, buckets[i-1].Date)
	}
}

func TestAggregateWeekSumsSameDayRecords(t *testing.T) {
	store := memory.NewStore()
	service := domain.NewService(store, store)
	end := 100 * day
	d := end - 3*day

	seedActivity(t, store, "u1", "Walk", d, 5)
	seedActivity(t, store, "u1", "Walk", d, 3)

	buckets := service.AggregateWeek(context.Background(), "Walk", end, "u1")

	require.Equal(t, float64(8), buckets[3].Value)
}

func TestAggregateWeekConservation(t *testing.T) {
	store := memory.NewStore()
	service := domain.NewService(store, store)
	end := 100 * day

	amounts := []float64{1.5, 2, 4, 0.5, 7}
	var want float64
	for i, amount := range amounts {
		seedActivity(t, store, "u1", "Run", end-int64(i)*day, amount)
		want += amount
	}
	// Outside the window and other filters; must not count.
	seedActivity(t, store, "u1", "Run", end-7*day, 100)
	seedActivity(t, store, "u1", "Swim", end, 100)
	seedActivity(t, store, "u2", "Run", end, 100)

	buckets := service.AggregateWeek(context.Background(), "Run", end, "u1")

	var got float64
	for _, b := range buckets {
		got += b.Value
	}
	require.Equal(t, want, got)
}

func TestAggregateWeekDefaultsToMostRecentGlobalActivity(t *testing.T) {
	store := memory.NewStore()
	service := domain.NewService(store, store)
	end := 100 * day

	seedActivity(t, store, "u1", "Walk", end, 5)
	// Another user's entry is the most recent insert; its type becomes the
	// default filter for everyone.
	seedActivity(t, store, "u2", "Swim", end, 2)
	seedActivity(t, store, "u1", "Swim", end-day, 4)

	buckets := service.AggregateWeek(context.Background(), "", end, "u1")

	require.Equal(t, float64(4), buckets[5].Value)
	require.Equal(t, float64(0), buckets[6].Value)
}

func TestAggregateWeekEmptyStoreFallsBack(t *testing.T) {
	store := memory.NewStore()
	service := domain.NewService(store, store)
	end := 100 * day

	buckets := service.AggregateWeek(context.Background(), "", end, "u1")

	require.Len(t, buckets, 7)
	for _, b := range buckets {
		require.Equal(t, float64(0), b.Value)
	}
}

func TestAggregateWeekIdempotent(t *testing.T) {
	store := memory.NewStore()
	service := domain.NewService(store, store)
	end := 100 * day

	seedActivity(t, store, "u1", "Walk", end-2*day, 3)
	seedActivity(t, store, "u1", "Walk", end, 1)

	first := service.AggregateWeek(context.Background(), "Walk", end, "u1")
	second := service.AggregateWeek(context.Background(), "Walk", end, "u1")

	require.Equal(t, first, second)
}

type oversharingRepo struct {
	*memory.Store
	rows []domain.ActivityRecord
}

func (o *oversharingRepo) FindByActivityTypeDateRangeUser(ctx context.Context, activity string, minDate, maxDate int64, userID string) ([]domain.ActivityRecord, error) {
	return o.rows, nil
}

func TestAggregateWeekIgnoresOutOfWindowRows(t *testing.T) {
	end := 100 * day
	repo := &oversharingRepo{
		Store: memory.NewStore(),
		rows: []domain.ActivityRecord{
			{Activity: "Walk", Date: end + day, Amount: 50, UserID: "u1"},
			{Activity: "Walk", Date: end - 9*day, Amount: 50, UserID: "u1"},
			{Activity: "Walk", Date: end, Amount: 2, UserID: "u1"},
		},
	}
	service := domain.NewService(repo, repo.Store)

	buckets := service.AggregateWeek(context.Background(), "Walk", end, "u1")

	var total float64
	for _, b := range buckets {
		total += b.Value
	}
	require.Equal(t, float64(2), total)
}

type failingRangeRepo struct {
	*memory.Store
}

func (f *failingRangeRepo) FindByActivityTypeDateRangeUser(ctx context.Context, activity string, minDate, maxDate int64, userID string) ([]domain.ActivityRecord, error) {
	return nil, errors.New("connection refused")
}

func (f *failingRangeRepo) FindMostRecentGlobal(ctx context.Context) (*domain.ActivityRecord, error) {
	return nil, errors.New("connection refused")
}

func TestAggregateWeekDegradesToZeroBucketsOnStoreFailure(t *testing.T) {
	repo := &failingRangeRepo{Store: memory.NewStore()}
	service := domain.NewService(repo, repo.Store)
	end := 100 * day

	buckets := service.AggregateWeek(context.Background(), "", end, "u1")

	require.Len(t, buckets, 7)
	for _, b := range buckets {
		require.Equal(t, float64(0), b.Value)
	}
}
