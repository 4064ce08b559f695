//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/tracker/internal/domain"
)

const day = int64(86400000)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("tracker"),
		postgrescontainer.WithUsername("tracker"),
		postgrescontainer.WithPassword("tracker"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var pool *pgxpool.Pool
	require.Eventually(t, func() bool {
		pool, err = pgxpool.New(ctx, connStr)
		if err != nil {
			return false
		}
		if err = pool.Ping(ctx); err != nil {
			pool.Close()
			return false
		}
		return true
	}, 30*time.Second, time.Second)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, EnsureSchema(ctx, pool))
	return NewRepository(pool)
}

func TestActivityRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.InsertActivity(ctx, domain.ActivityRecord{
		Activity: "Walk", Date: 100 * day, Amount: 5, UserID: "u1",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	latest, err := repo.FindMostRecentGlobal(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, id, latest.ID)
	require.Equal(t, "Walk", latest.Activity)
	require.Equal(t, float64(5), latest.Amount)

	records, err := repo.FindByActivityTypeDateRangeUser(ctx, "Walk", 94*day, 100*day, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, repo.DeleteByID(ctx, id, "u1"))
	latest, err = repo.FindMostRecentGlobal(ctx)
	require.NoError(t, err)
	require.Nil(t, latest)
}

func TestPlannedLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := 100 * day

	for _, date := range []int64{now - 10*day, now - 5*day, now} {
		_, err := repo.InsertActivity(ctx, domain.ActivityRecord{
			Activity: "Run", Date: date, Amount: domain.PlannedAmount, UserID: "u1",
		})
		require.NoError(t, err)
	}
	_, err := repo.InsertActivity(ctx, domain.ActivityRecord{
		Activity: "Run", Date: now - 10*day, Amount: domain.PlannedAmount, UserID: "u2",
	})
	require.NoError(t, err)

	planned, err := repo.FindPlannedByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, planned, 3)

	require.NoError(t, repo.DeletePlannedOlderThan(ctx, now-day, "u1"))

	planned, err = repo.FindPlannedByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, planned, 1)
	require.Equal(t, now, planned[0].Date)

	// Other users' stale plans are untouched.
	planned, err = repo.FindPlannedByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, planned, 1)
}

func TestProfileFindOrCreateIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	profile, err := repo.Find(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, profile)

	require.NoError(t, repo.FindOrCreate(ctx, "u1", "Ada"))
	require.NoError(t, repo.FindOrCreate(ctx, "u1", "Grace"))

	profile, err = repo.Find(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, "Ada", profile.FirstName)
}
