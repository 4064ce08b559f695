// Package postgres provides pgx-backed persistence for activity records and
// user profiles.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/tracker/internal/domain"
)

// Repository implements domain.ActivityRepository and
// domain.ProfileRepository over a pgx pool. Every method runs exactly one
// statement; no business logic lives here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recordColumns = `rowidnum, activity, date, amount, userid`

// InsertActivity persists a record and returns its assigned row id.
func (r *Repository) InsertActivity(ctx context.Context, rec domain.ActivityRecord) (int64, error) {
	const stmt = `INSERT INTO activitytable (activity, date, amount, userid)
        VALUES ($1,$2,$3,$4) RETURNING rowidnum`

	var id int64
	if err := r.pool.QueryRow(ctx, stmt, rec.Activity, rec.Date, rec.Amount, rec.UserID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// FindPlannedByUser returns the pending plans belonging to userID.
func (r *Repository) FindPlannedByUser(ctx context.Context, userID string) ([]domain.ActivityRecord, error) {
	const query = `SELECT ` + recordColumns + ` FROM activitytable
        WHERE amount = $1 AND userid = $2`

	rows, err := r.pool.Query(ctx, query, domain.PlannedAmount, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// FindByActivityType returns every record of the given type, any user.
func (r *Repository) FindByActivityType(ctx context.Context, activity string) ([]domain.ActivityRecord, error) {
	const query = `SELECT ` + recordColumns + ` FROM activitytable WHERE activity = $1`

	rows, err := r.pool.Query(ctx, query, activity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// FindByActivityTypeDateRangeUser returns userID's records of the given type
// with date between minDate and maxDate inclusive.
func (r *Repository) FindByActivityTypeDateRangeUser(ctx context.Context, activity string, minDate, maxDate int64, userID string) ([]domain.ActivityRecord, error) {
	const query = `SELECT ` + recordColumns + ` FROM activitytable
        WHERE activity = $1 AND date BETWEEN $2 AND $3 AND userid = $4`

	rows, err := r.pool.Query(ctx, query, activity, minDate, maxDate, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// FindMostRecentGlobal returns the most recently inserted record across all
// users, or nil when the table is empty.
func (r *Repository) FindMostRecentGlobal(ctx context.Context) (*domain.ActivityRecord, error) {
	const query = `SELECT ` + recordColumns + ` FROM activitytable
        ORDER BY rowidnum DESC LIMIT 1`

	var rec domain.ActivityRecord
	row := r.pool.QueryRow(ctx, query)
	if err := row.Scan(&rec.ID, &rec.Activity, &rec.Date, &rec.Amount, &rec.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// DeletePlannedOlderThan removes userID's plans dated before cutoff.
func (r *Repository) DeletePlannedOlderThan(ctx context.Context, cutoff int64, userID string) error {
	const stmt = `DELETE FROM activitytable
        WHERE amount = $1 AND date < $2 AND userid = $3`

	_, err := r.pool.Exec(ctx, stmt, domain.PlannedAmount, cutoff, userID)
	return err
}

// DeleteByID removes a single record, scoped to its owner.
func (r *Repository) DeleteByID(ctx context.Context, id int64, userID string) error {
	const stmt = `DELETE FROM activitytable WHERE rowidnum = $1 AND userid = $2`

	_, err := r.pool.Exec(ctx, stmt, id, userID)
	return err
}

// DeleteAll drops every activity record. Profiles are untouched.
func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM activitytable`)
	return err
}

// FindOrCreate inserts a profile row unless one already exists for userID.
// The unique index makes the insert a no-op when a concurrent first login
// already created the row.
func (r *Repository) FindOrCreate(ctx context.Context, userID, firstName string) error {
	const query = `SELECT userid FROM profiletable WHERE userid = $1`

	var existing string
	err := r.pool.QueryRow(ctx, query, userID).Scan(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	const stmt = `INSERT INTO profiletable (userid, firstname)
        VALUES ($1,$2) ON CONFLICT (userid) DO NOTHING`
	_, err = r.pool.Exec(ctx, stmt, userID, firstName)
	return err
}

// Find returns the profile for userID, or nil when absent.
func (r *Repository) Find(ctx context.Context, userID string) (*domain.UserProfile, error) {
	const query = `SELECT userid, firstname FROM profiletable WHERE userid = $1`

	var profile domain.UserProfile
	row := r.pool.QueryRow(ctx, query, userID)
	if err := row.Scan(&profile.UserID, &profile.FirstName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func scanRecords(rows pgx.Rows) ([]domain.ActivityRecord, error) {
	var out []domain.ActivityRecord
	for rows.Next() {
		var rec domain.ActivityRecord
		if err := rows.Scan(&rec.ID, &rec.Activity, &rec.Date, &rec.Amount, &rec.UserID); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
