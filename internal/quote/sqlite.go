package quote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const quoteColumns = `id, created_at, updated_at, name, job_data, breakdown_data, insights_data, total_cost, status`

// SQLStore stores quotes in a SQLite database migrated by the migrations package.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore wraps an open, migrated database. The store owns db and closes
// it on Close.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// backfillSearchNames fills search_name for rows written before the column
// existed. SQLite's lower() folds ASCII only, so the key is computed here.
func (s *SQLStore) backfillSearchNames(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM quotes WHERE search_name = '' AND name <> ''`)
	if err != nil {
		return 0, fmt.Errorf("list unindexed quotes: %w", err)
	}
	pending := map[string]string{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan unindexed quote: %w", err)
		}
		pending[id] = name
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate unindexed quotes: %w", err)
	}
	rows.Close()

	for id, name := range pending {
		if _, err := s.db.ExecContext(ctx, `UPDATE quotes SET search_name = ? WHERE id = ?`, searchKey(name), id); err != nil {
			return 0, fmt.Errorf("backfill search name: %w", err)
		}
	}
	return len(pending), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLiteQuote(row scanner) (Quote, error) {
	var (
		q                        Quote
		createdAt, updatedAt     string
		job, breakdown, insights string
	)
	if err := row.Scan(&q.ID, &createdAt, &updatedAt, &q.Name, &job, &breakdown, &insights, &q.TotalCost, &q.Status); err != nil {
		return Quote{}, err
	}

	var err error
	if q.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Quote{}, fmt.Errorf("parse created_at: %w", err)
	}
	if q.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return Quote{}, fmt.Errorf("parse updated_at: %w", err)
	}
	if err := decodeSnapshots(&q, []byte(job), []byte(breakdown), []byte(insights)); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *SQLStore) ListQuotes(ctx context.Context, f Filter) ([]Quote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE (? = '' OR instr(search_name, ?) > 0)
			AND (? = '' OR status = ?)
		ORDER BY created_at DESC, rowid DESC
	`, f.Query, searchKey(f.Query), string(f.Status), string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]Quote, 0)
	for rows.Next() {
		q, err := scanSQLiteQuote(rows)
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

func (s *SQLStore) GetQuote(ctx context.Context, id string) (Quote, error) {
	return getSQLiteQuote(ctx, s.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getSQLiteQuote(ctx context.Context, db queryRower, id string) (Quote, error) {
	q, err := scanSQLiteQuote(db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("query quote: %w", err)
	}
	return q, nil
}

func (s *SQLStore) SaveQuote(ctx context.Context, d Draft) (Quote, error) {
	q, err := d.build(uuid.NewString(), s.now())
	if err != nil {
		return Quote{}, err
	}
	job, breakdown, insights, err := encodeSnapshots(q)
	if err != nil {
		return Quote{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (`+quoteColumns+`, search_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ID, q.CreatedAt.Format(timeLayout), q.UpdatedAt.Format(timeLayout), q.Name,
		string(job), string(breakdown), string(insights), q.TotalCost, string(q.Status), searchKey(q.Name))
	if err != nil {
		return Quote{}, fmt.Errorf("insert quote: %w", err)
	}
	return q, nil
}

func (s *SQLStore) UpdateQuote(ctx context.Context, id string, p Patch) (Quote, error) {
	if err := p.validate(); err != nil {
		return Quote{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("begin update transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q, err := getSQLiteQuote(ctx, tx, id)
	if err != nil {
		return Quote{}, err
	}
	p.apply(&q, s.now())

	job, breakdown, insights, err := encodeSnapshots(q)
	if err != nil {
		return Quote{}, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE quotes
		SET
			updated_at = ?,
			name = ?,
			search_name = ?,
			job_data = ?,
			breakdown_data = ?,
			insights_data = ?,
			total_cost = ?,
			status = ?
		WHERE id = ?
	`, q.UpdatedAt.Format(timeLayout), q.Name, searchKey(q.Name), string(job), string(breakdown), string(insights),
		q.TotalCost, string(q.Status), id)
	if err != nil {
		return Quote{}, fmt.Errorf("update quote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Quote{}, fmt.Errorf("commit update transaction: %w", err)
	}
	return q, nil
}

func (s *SQLStore) DeleteQuote(ctx context.Context, id string) (Quote, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("begin delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q, err := getSQLiteQuote(ctx, tx, id)
	if err != nil {
		return Quote{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id); err != nil {
		return Quote{}, fmt.Errorf("delete quote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Quote{}, fmt.Errorf("commit delete transaction: %w", err)
	}
	return q, nil
}

func (s *SQLStore) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, name, cost_per_kg, density, print_temp, bed_temp, properties, is_default
		FROM filament_presets
		ORDER BY name, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("query presets: %w", err)
	}
	defer rows.Close()

	presets := make([]Preset, 0)
	for rows.Next() {
		var (
			p          Preset
			createdAt  string
			properties string
		)
		if err := rows.Scan(&p.ID, &createdAt, &p.Name, &p.CostPerKg, &p.Density, &p.PrintTemp, &p.BedTemp, &properties, &p.IsDefault); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		if p.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse preset created_at: %w", err)
		}
		if err := json.Unmarshal([]byte(properties), &p.Properties); err != nil {
			return nil, fmt.Errorf("unmarshal preset properties: %w", err)
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presets: %w", err)
	}
	return presets, nil
}

func (s *SQLStore) SavePreset(ctx context.Context, p Preset) (Preset, error) {
	p = p.clone()
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()

	properties, err := json.Marshal(p.Properties)
	if err != nil {
		return Preset{}, fmt.Errorf("marshal preset properties: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO filament_presets (id, created_at, name, cost_per_kg, density, print_temp, bed_temp, properties, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.CreatedAt.Format(timeLayout), p.Name, p.CostPerKg, p.Density, p.PrintTemp, p.BedTemp, string(properties), p.IsDefault)
	if err != nil {
		return Preset{}, fmt.Errorf("insert preset: %w", err)
	}
	return p, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
