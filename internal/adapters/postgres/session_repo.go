package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// SessionRepo implements ports.SessionRepository with pgx.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Save inserts a session row, replacing the route fields of an existing one.
func (r *SessionRepo) Save(ctx context.Context, rec *domain.SessionRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO navigation_sessions
			(id, origin, destination, destination_name, total_distance_m, total_time_s, waypoint_count, created_at)
		VALUES ($1,
			ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography,
			ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography,
			$6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET origin = EXCLUDED.origin, destination = EXCLUDED.destination,
		    destination_name = EXCLUDED.destination_name,
		    total_distance_m = EXCLUDED.total_distance_m,
		    total_time_s = EXCLUDED.total_time_s,
		    waypoint_count = EXCLUDED.waypoint_count
	`, rec.ID, rec.Origin.Lon, rec.Origin.Lat, rec.Destination.Lon, rec.Destination.Lat,
		rec.DestinationName, rec.Summary.TotalDistanceMeters, rec.Summary.TotalTimeSeconds,
		rec.WaypointCount, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

const selectSession = `
	SELECT id,
	       ST_Y(origin::geometry), ST_X(origin::geometry),
	       ST_Y(destination::geometry), ST_X(destination::geometry),
	       destination_name, total_distance_m, total_time_s, waypoint_count,
	       created_at, arrived_at, ended_at
	FROM navigation_sessions`

func scanSession(row pgx.Row, rec *domain.SessionRecord) error {
	return row.Scan(
		&rec.ID,
		&rec.Origin.Lat, &rec.Origin.Lon,
		&rec.Destination.Lat, &rec.Destination.Lon,
		&rec.DestinationName, &rec.Summary.TotalDistanceMeters, &rec.Summary.TotalTimeSeconds,
		&rec.WaypointCount, &rec.CreatedAt, &rec.ArrivedAt, &rec.EndedAt,
	)
}

// GetByID returns a session row, or domain.ErrSessionNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*domain.SessionRecord, error) {
	var rec domain.SessionRecord
	err := scanSession(r.db.Pool.QueryRow(ctx, selectSession+` WHERE id = $1`, id), &rec)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// MarkArrived stamps the first arrival; later calls keep the original time.
func (r *SessionRepo) MarkArrived(ctx context.Context, id string, at time.Time) error {
	return r.stamp(ctx, `UPDATE navigation_sessions SET arrived_at = COALESCE(arrived_at, $2) WHERE id = $1`, id, at)
}

// MarkEnded stamps the end of the session.
func (r *SessionRepo) MarkEnded(ctx context.Context, id string, at time.Time) error {
	return r.stamp(ctx, `UPDATE navigation_sessions SET ended_at = COALESCE(ended_at, $2) WHERE id = $1`, id, at)
}

func (r *SessionRepo) stamp(ctx context.Context, query, id string, at time.Time) error {
	tag, err := r.db.Pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session row. Deleting a missing row is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM navigation_sessions WHERE id = $1`, id)
	return err
}

// ListRecent returns the newest sessions first.
func (r *SessionRepo) ListRecent(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	rows, err := r.db.Pool.Query(ctx, selectSession+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SessionRecord
	for rows.Next() {
		var rec domain.SessionRecord
		if err := scanSession(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
