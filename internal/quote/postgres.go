package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore stores quotes in a hosted Postgres database.
type PGStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPGStore wraps a connected pool. The store owns the pool and closes it on
// Close.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	// timestamptz keeps microseconds.
	now := func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
	return &PGStore{pool: pool, now: now}
}

func scanPGQuote(row pgx.Row) (Quote, error) {
	var (
		q                        Quote
		job, breakdown, insights []byte
	)
	if err := row.Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt, &q.Name, &job, &breakdown, &insights, &q.TotalCost, &q.Status); err != nil {
		return Quote{}, err
	}
	q.CreatedAt = q.CreatedAt.UTC()
	q.UpdatedAt = q.UpdatedAt.UTC()
	if err := decodeSnapshots(&q, job, breakdown, insights); err != nil {
		return Quote{}, err
	}
	return q, nil
}

const pgQuoteColumns = `id::text, created_at, updated_at, name, job_data, breakdown_data, insights_data, total_cost, status`

func (s *PGStore) ListQuotes(ctx context.Context, f Filter) ([]Quote, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+pgQuoteColumns+`
		FROM quotes
		WHERE ($1 = '' OR strpos(search_name, $1) > 0)
			AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, seq DESC
	`, searchKey(f.Query), string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]Quote, 0)
	for rows.Next() {
		q, err := scanPGQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getPGQuote(ctx context.Context, db pgQuerier, id string, forUpdate bool) (Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	query := `SELECT ` + pgQuoteColumns + ` FROM quotes WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	q, err := scanPGQuote(db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("query quote: %w", err)
	}
	return q, nil
}

func (s *PGStore) GetQuote(ctx context.Context, id string) (Quote, error) {
	return getPGQuote(ctx, s.pool, id, false)
}

func (s *PGStore) SaveQuote(ctx context.Context, d Draft) (Quote, error) {
	q, err := d.build(uuid.NewString(), s.now())
	if err != nil {
		return Quote{}, err
	}
	job, breakdown, insights, err := encodeSnapshots(q)
	if err != nil {
		return Quote{}, err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO quotes (id, created_at, updated_at, name, job_data, breakdown_data, insights_data, total_cost, status, search_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, q.ID, q.CreatedAt, q.UpdatedAt, q.Name, job, breakdown, insights, q.TotalCost, string(q.Status), searchKey(q.Name))
	if err != nil {
		return Quote{}, fmt.Errorf("insert quote: %w", err)
	}
	return q, nil
}

func (s *PGStore) UpdateQuote(ctx context.Context, id string, p Patch) (Quote, error) {
	if err := p.validate(); err != nil {
		return Quote{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Quote{}, fmt.Errorf("begin update transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q, err := getPGQuote(ctx, tx, id, true)
	if err != nil {
		return Quote{}, err
	}
	p.apply(&q, s.now())

	job, breakdown, insights, err := encodeSnapshots(q)
	if err != nil {
		return Quote{}, err
	}
	_, err = tx.Exec(ctx, `
		UPDATE quotes
		SET
			updated_at = $2,
			name = $3,
			job_data = $4,
			breakdown_data = $5,
			insights_data = $6,
			total_cost = $7,
			status = $8,
			search_name = $9
		WHERE id = $1
	`, id, q.UpdatedAt, q.Name, job, breakdown, insights, q.TotalCost, string(q.Status), searchKey(q.Name))
	if err != nil {
		return Quote{}, fmt.Errorf("update quote: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Quote{}, fmt.Errorf("commit update transaction: %w", err)
	}
	return q, nil
}

func (s *PGStore) DeleteQuote(ctx context.Context, id string) (Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	q, err := scanPGQuote(s.pool.QueryRow(ctx, `
		DELETE FROM quotes
		WHERE id = $1
		RETURNING `+pgQuoteColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("delete quote: %w", err)
	}
	return q, nil
}

func (s *PGStore) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, created_at, name, cost_per_kg, density, print_temp, bed_temp, properties, is_default
		FROM filament_presets
		ORDER BY name, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("query presets: %w", err)
	}
	defer rows.Close()

	presets := make([]Preset, 0)
	for rows.Next() {
		var p Preset
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.Name, &p.CostPerKg, &p.Density, &p.PrintTemp, &p.BedTemp, &p.Properties, &p.IsDefault); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presets: %w", err)
	}
	return presets, nil
}

func (s *PGStore) SavePreset(ctx context.Context, p Preset) (Preset, error) {
	p = p.clone()
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO filament_presets (id, created_at, name, cost_per_kg, density, print_temp, bed_temp, properties, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.CreatedAt, p.Name, p.CostPerKg, p.Density, p.PrintTemp, p.BedTemp, p.Properties, p.IsDefault)
	if err != nil {
		return Preset{}, fmt.Errorf("insert preset: %w", err)
	}
	return p, nil
}

// Close closes the pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
