package bodsfeed

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// storeFreshness bounds how old a stored position may be and still count as
// "currently active" for the feed.
const storeFreshness = 5 * time.Minute

// Store is the Postgres-backed position provider. It serves the feed from the
// vehicle_positions table the dashboard writes into, and accepts ingested
// positions from the self-tracking endpoint.
type Store struct {
	db *sql.DB
}

// OpenStore opens a connection pool against the given DSN.
func OpenStore(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error { return s.db.Close() }

// List returns the positions recorded within the freshness window, newest
// first.
func (s *Store) List(ctx context.Context) ([]VehiclePositionRecord, error) {
	q := `
SELECT vehicle_ref, line_ref, published_line_name, direction_ref, operator_ref,
       origin_ref, origin_name, destination_ref, destination_name,
       origin_aimed_departure_time, destination_aimed_arrival_time,
       longitude, latitude, bearing, velocity, occupancy,
       block_ref, vehicle_journey_ref, recorded_at_time
FROM vehicle_positions
WHERE recorded_at_time > NOW() - $1::interval
ORDER BY recorded_at_time DESC`

	rows, err := s.db.QueryContext(ctx, q, strconv.Itoa(int(storeFreshness.Seconds()))+" seconds")
	if err != nil {
		return nil, fmt.Errorf("query vehicle positions: %w", err)
	}
	defer rows.Close()

	var records []VehiclePositionRecord
	for rows.Next() {
		var r VehiclePositionRecord
		var originName, destName, occupancy, blockRef sql.NullString
		var aimedDep, aimedArr sql.NullTime
		var velocity sql.NullFloat64
		var recordedAt time.Time
		if err := rows.Scan(
			&r.VehicleRef, &r.LineRef, &r.PublishedLineName, &r.DirectionRef, &r.OperatorRef,
			&r.OriginRef, &originName, &r.DestinationRef, &destName,
			&aimedDep, &aimedArr,
			&r.Longitude, &r.Latitude, &r.Bearing, &velocity, &occupancy,
			&blockRef, &r.VehicleJourneyRef, &recordedAt,
		); err != nil {
			return nil, err
		}
		r.OriginName = originName.String
		r.DestinationName = destName.String
		r.Occupancy = occupancy.String
		r.BlockRef = blockRef.String
		if aimedDep.Valid {
			t := aimedDep.Time.UTC()
			r.OriginAimedDepartureTime = &t
		}
		if aimedArr.Valid {
			t := aimedArr.Time.UTC()
			r.DestinationAimedArrivalTime = &t
		}
		if velocity.Valid {
			v := velocity.Float64
			r.Velocity = &v
		}
		records = append(records, r.Stamp(recordedAt))
	}
	return records, rows.Err()
}

// Insert upserts one position on (vehicle_ref, recorded_at_time), replacing
// the movement fields when the same instant is reported twice.
func (s *Store) Insert(ctx context.Context, r VehiclePositionRecord) error {
	q := `
INSERT INTO vehicle_positions (
  vehicle_ref, line_ref, published_line_name, direction_ref, operator_ref,
  origin_ref, origin_name, destination_ref, destination_name,
  origin_aimed_departure_time, destination_aimed_arrival_time,
  longitude, latitude, bearing, velocity, occupancy,
  block_ref, vehicle_journey_ref, recorded_at_time, valid_until_time
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
ON CONFLICT (vehicle_ref, recorded_at_time)
DO UPDATE SET
  longitude = EXCLUDED.longitude,
  latitude = EXCLUDED.latitude,
  bearing = EXCLUDED.bearing,
  velocity = EXCLUDED.velocity,
  occupancy = EXCLUDED.occupancy,
  valid_until_time = EXCLUDED.valid_until_time`

	_, err := s.db.ExecContext(ctx, q,
		r.VehicleRef, r.LineRef, r.PublishedLineName, r.DirectionRef, r.OperatorRef,
		r.OriginRef, nullString(r.OriginName), r.DestinationRef, nullString(r.DestinationName),
		nullTime(r.OriginAimedDepartureTime), nullTime(r.DestinationAimedArrivalTime),
		r.Longitude, r.Latitude, r.Bearing, nullFloat(r.Velocity), nullString(r.Occupancy),
		nullString(r.BlockRef), r.VehicleJourneyRef, r.RecordedAtTime, r.ValidUntilTime,
	)
	if err != nil {
		return fmt.Errorf("insert vehicle position: %w", err)
	}
	return nil
}

// DeleteFilter narrows a bulk delete. Zero values impose no constraint;
// Before and DaysOld are mutually exclusive, Before winning when both are
// set.
type DeleteFilter struct {
	VehicleRef  string
	OperatorRef string
	Before      time.Time
	DaysOld     int
}

// Delete removes stored positions matching the filter and reports how many
// rows went away.
func (s *Store) Delete(ctx context.Context, f DeleteFilter) (int64, error) {
	q := "DELETE FROM vehicle_positions WHERE 1=1"
	var args []any
	if f.VehicleRef != "" {
		args = append(args, f.VehicleRef)
		q += fmt.Sprintf(" AND vehicle_ref = $%d", len(args))
	}
	if f.OperatorRef != "" {
		args = append(args, f.OperatorRef)
		q += fmt.Sprintf(" AND operator_ref = $%d", len(args))
	}
	cutoff := f.Before
	if cutoff.IsZero() && f.DaysOld > 0 {
		cutoff = time.Now().UTC().AddDate(0, 0, -f.DaysOld)
	}
	if !cutoff.IsZero() {
		args = append(args, cutoff)
		q += fmt.Sprintf(" AND recorded_at_time < $%d", len(args))
	}

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("delete vehicle positions: %w", err)
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
