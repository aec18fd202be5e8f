package ratecard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/wirequote/internal/domain/pricing"
)

// PostgresSource reads worker records from the electricians table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource constructs the source.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// FetchRateCards returns active workers ordered by id.
func (s *PostgresSource) FetchRateCards(ctx context.Context) ([]pricing.RateCard, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT electrician_id, name, email, location, description,
		       hourly_rate::float8, call_out_fee::float8, minimum_charge::float8,
		       emergency_uplift::float8, is_active
		FROM electricians
		WHERE is_active
		ORDER BY electrician_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query electricians: %w", err)
	}
	defer rows.Close()

	var records []record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate electricians: %w", err)
	}
	return activeCards(records), nil
}

func scanRecord(row pgx.Row) (record, error) {
	var (
		id, name, email, location, description *string
		rec                                    record
	)
	if err := row.Scan(
		&id, &name, &email, &location, &description,
		&rec.HourlyRate, &rec.CallOutFee, &rec.MinimumCharge,
		&rec.EmergencyUplift, &rec.IsActive,
	); err != nil {
		return record{}, fmt.Errorf("scan electrician: %w", err)
	}
	rec.ElectricianID = pricing.WorkerID(deref(id))
	rec.Name = deref(name)
	rec.Email = deref(email)
	rec.Location = deref(location)
	rec.Description = deref(description)
	return rec, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
