package table

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/model"
)

// DB is a SQLite report database.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a report database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			rank INTEGER NOT NULL,
			compound TEXT NOT NULL,
			pair_id INTEGER NOT NULL,
			solvent_a TEXT NOT NULL,
			solvent_a_ratio REAL NOT NULL,
			solvent_b TEXT NOT NULL,
			solvent_b_ratio REAL NOT NULL,
			distance REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pairs (
			rank INTEGER NOT NULL,
			pair_id INTEGER PRIMARY KEY,
			occurrence_count INTEGER NOT NULL,
			min_distance REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS neighbors (
			compound TEXT NOT NULL,
			rank INTEGER NOT NULL,
			pair_id INTEGER NOT NULL,
			solvent_a_id INTEGER NOT NULL,
			solvent_b_id INTEGER NOT NULL,
			distance REAL NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_neighbors_pair ON neighbors(pair_id);
	`

	_, err := db.Exec(schema)
	return err
}

// replace clears table and inserts one row per call of args inside a single transaction.
func (d *DB) replace(ctx context.Context, table, insert string, n int, args func(i int) []any) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clearing %s table: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("preparing %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReplaceResults replaces the contents of the results table.
func (d *DB) ReplaceResults(ctx context.Context, rows []model.ResultRow) error {
	return d.replace(ctx, "results", `
		INSERT INTO results (
			rank, compound, pair_id, solvent_a, solvent_a_ratio,
			solvent_b, solvent_b_ratio, distance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, len(rows), func(i int) []any {
		r := rows[i]
		return []any{i + 1, r.Compound, int64(r.Pair), r.SolventA, r.RatioA, r.SolventB, r.RatioB, r.Distance}
	})
}

// ReplacePairs replaces the contents of the pairs table.
func (d *DB) ReplacePairs(ctx context.Context, pairs []model.PairCount) error {
	return d.replace(ctx, "pairs", `
		INSERT INTO pairs (rank, pair_id, occurrence_count, min_distance)
		VALUES (?, ?, ?, ?)
	`, len(pairs), func(i int) []any {
		p := pairs[i]
		return []any{i + 1, int64(p.Pair), p.Count, p.MinDistance}
	})
}

// ReplaceNeighbors replaces the contents of the neighbors table.
func (d *DB) ReplaceNeighbors(ctx context.Context, neighbors []Neighbor) error {
	return d.replace(ctx, "neighbors", `
		INSERT INTO neighbors (compound, rank, pair_id, solvent_a_id, solvent_b_id, distance)
		VALUES (?, ?, ?, ?, ?, ?)
	`, len(neighbors), func(i int) []any {
		n := neighbors[i]
		return []any{n.Compound, n.Rank, int64(n.Pair), int64(n.SolventA), int64(n.SolventB), n.Distance}
	})
}

// Results returns the stored result rows in rank order.
func (d *DB) Results(ctx context.Context) ([]model.ResultRow, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT compound, pair_id, solvent_a, solvent_a_ratio, solvent_b, solvent_b_ratio, distance
		FROM results ORDER BY rank
	`)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var out []model.ResultRow
	for rows.Next() {
		var (
			r    model.ResultRow
			pair int64
		)
		if err := rows.Scan(&r.Compound, &pair, &r.SolventA, &r.RatioA, &r.SolventB, &r.RatioB, &r.Distance); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Pair = core.PairID(pair)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Pairs returns the stored pair counts in rank order.
func (d *DB) Pairs(ctx context.Context) ([]model.PairCount, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT pair_id, occurrence_count, min_distance FROM pairs ORDER BY rank
	`)
	if err != nil {
		return nil, fmt.Errorf("querying pairs: %w", err)
	}
	defer rows.Close()

	var out []model.PairCount
	for rows.Next() {
		var (
			p    model.PairCount
			pair int64
		)
		if err := rows.Scan(&pair, &p.Count, &p.MinDistance); err != nil {
			return nil, fmt.Errorf("scanning pair: %w", err)
		}
		p.Pair = core.PairID(pair)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Neighbors returns the stored neighbor rows in the order they were written.
func (d *DB) Neighbors(ctx context.Context) ([]Neighbor, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT compound, rank, pair_id, solvent_a_id, solvent_b_id, distance
		FROM neighbors ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying neighbors: %w", err)
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var (
			n          Neighbor
			pair, a, b int64
		)
		if err := rows.Scan(&n.Compound, &n.Rank, &pair, &a, &b, &n.Distance); err != nil {
			return nil, fmt.Errorf("scanning neighbor: %w", err)
		}
		n.Pair, n.SolventA, n.SolventB = core.PairID(pair), core.ID(a), core.ID(b)
		out = append(out, n)
	}
	return out, rows.Err()
}
