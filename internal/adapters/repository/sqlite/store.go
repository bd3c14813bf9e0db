// Package sqlite provides a SQLite-backed calculation history store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/okian/pokecalc/internal/adapters/repository"
	"github.com/okian/pokecalc/internal/domain/model"
	"github.com/okian/pokecalc/pkg/metrics"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS calculations (
  seq          INTEGER PRIMARY KEY AUTOINCREMENT,
  id           TEXT NOT NULL UNIQUE,
  created_at   INTEGER NOT NULL,
  generation   INTEGER NOT NULL,
  attacker     TEXT NOT NULL,
  defender     TEXT NOT NULL,
  move         TEXT NOT NULL,
  description  TEXT NOT NULL,
  cached       INTEGER NOT NULL DEFAULT 0,
  request_json TEXT NOT NULL,
  result_json  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS calculations_created_at ON calculations (created_at);
`

// Store persists calculation records in SQLite.
type Store struct {
	sqlDB *sql.DB
	count atomic.Int64
}

var _ repository.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite history store at path and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{sqlDB: sqlDB}
	var n int64
	if err := sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM calculations`).Scan(&n); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("count calculations: %w", err)
	}
	s.count.Store(n)
	metrics.UpdateHistoryRecords(int(n))
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts one record.
func (s *Store) Save(ctx context.Context, rec model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(rec.ID) == "" {
		return repository.ErrInvalidID
	}
	req, err := json.Marshal(rec.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	res, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO calculations (
		   id, created_at, generation, attacker, defender, move,
		   description, cached, request_json, result_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		toMillis(createdAt),
		rec.Result.Generation,
		rec.Result.Attacker.Name,
		rec.Result.Defender.Name,
		rec.Result.Move.Name,
		rec.Result.Description,
		rec.Cached,
		string(req),
		string(res),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: duplicate id %s", repository.ErrInvalidID, rec.ID)
		}
		return fmt.Errorf("save calculation: %w", err)
	}
	metrics.UpdateHistoryRecords(int(s.count.Add(1)))
	return nil
}

// Get returns one record by ID.
func (s *Store) Get(ctx context.Context, id string) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, created_at, cached, request_json, result_json
		   FROM calculations
		  WHERE id = ?`,
		strings.TrimSpace(id),
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Record{}, repository.ErrNotFound
		}
		return model.Record{}, fmt.Errorf("get calculation: %w", err)
	}
	return rec, nil
}

// Recent returns up to n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, repository.ErrInvalidLimit
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, created_at, cached, request_json, result_json
		   FROM calculations
		  ORDER BY seq DESC
		  LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	out := make([]model.Record, 0, min(n, s.Count(ctx)))
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) int {
	return int(s.count.Load())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (model.Record, error) {
	var (
		rec       model.Record
		createdAt int64
		req, res  string
	)
	if err := row.Scan(&rec.ID, &createdAt, &rec.Cached, &req, &res); err != nil {
		return model.Record{}, err
	}
	if err := json.Unmarshal([]byte(req), &rec.Request); err != nil {
		return model.Record{}, fmt.Errorf("decode request: %w", err)
	}
	if err := json.Unmarshal([]byte(res), &rec.Result); err != nil {
		return model.Record{}, fmt.Errorf("decode result: %w", err)
	}
	rec.CreatedAt = fromMillis(createdAt)
	return rec, nil
}
