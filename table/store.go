package table

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/solvmatch/blobstore"
	"github.com/hupe1980/solvmatch/model"
)

// LoadSolvents reads the named solvent table from store.
func LoadSolvents(ctx context.Context, store blobstore.BlobStore, name string) ([]model.Solvent, error) {
	var out []model.Solvent
	err := load(ctx, store, name, func(r io.Reader, opt func(*ReadOptions)) (err error) {
		out, err = ReadSolvents(r, opt)
		return err
	})
	return out, err
}

// LoadCompounds reads the named compound table from store.
func LoadCompounds(ctx context.Context, store blobstore.BlobStore, name string) ([]model.Compound, error) {
	var out []model.Compound
	err := load(ctx, store, name, func(r io.Reader, opt func(*ReadOptions)) (err error) {
		out, err = ReadCompounds(r, opt)
		return err
	})
	return out, err
}

func load(ctx context.Context, store blobstore.BlobStore, name string, read func(io.Reader, func(*ReadOptions)) error) error {
	f, comp, err := FormatOf(name)
	if err != nil {
		return err
	}
	if f != FormatCSV && f != FormatTSV {
		return fmt.Errorf("%w: cannot read %s input %q", ErrUnsupportedFormat, f, name)
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	rc, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		blob.Close()
		return fmt.Errorf("read %s: %w", name, err)
	}
	defer rc.Close()

	dr, err := decompress(rc, comp)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	defer dr.Close()

	if err := read(dr, func(o *ReadOptions) { o.Comma = f.comma() }); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

// SaveResults writes result rows to the named blob, choosing the format by extension.
func SaveResults(ctx context.Context, store blobstore.BlobStore, name string, rows []model.ResultRow, optFns ...func(*WriteOptions)) error {
	return save(ctx, store, name, resultsData(rows), func(db *DB) error {
		return db.ReplaceResults(ctx, rows)
	}, optFns)
}

// SavePairs writes pair counts to the named blob, choosing the format by extension.
func SavePairs(ctx context.Context, store blobstore.BlobStore, name string, pairs []model.PairCount, optFns ...func(*WriteOptions)) error {
	return save(ctx, store, name, pairsData(pairs), func(db *DB) error {
		return db.ReplacePairs(ctx, pairs)
	}, optFns)
}

// SaveNeighbors writes neighbor rows to the named blob, choosing the format by extension.
func SaveNeighbors(ctx context.Context, store blobstore.BlobStore, name string, neighbors []Neighbor, optFns ...func(*WriteOptions)) error {
	return save(ctx, store, name, neighborsData(neighbors), func(db *DB) error {
		return db.ReplaceNeighbors(ctx, neighbors)
	}, optFns)
}

func save(ctx context.Context, store blobstore.BlobStore, name string, t tableData, fill func(*DB) error, optFns []func(*WriteOptions)) error {
	f, comp, err := FormatOf(name)
	if err != nil {
		return err
	}
	opts := applyWriteOptions(optFns)

	if f == FormatSQLite {
		if err := saveSQLite(ctx, store, name, fill); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		return nil
	}

	blob, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := writeCompressed(blob, f, comp, t, opts); err != nil {
		blob.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := blob.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

func writeCompressed(w io.Writer, f Format, comp Compression, t tableData, opts WriteOptions) error {
	cw, err := compress(w, comp, opts.ZstdLevel)
	if err != nil {
		return err
	}
	if err := writeText(cw, f, t, opts); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// saveSQLite stages the database in a local temp file, merging into an
// existing blob of the same name so sections can share one database.
func saveSQLite(ctx context.Context, store blobstore.BlobStore, name string, fill func(*DB) error) error {
	tmp, err := os.CreateTemp("", "solvmatch-*.db")
	if err != nil {
		return err
	}
	path := tmp.Name()
	defer os.Remove(path)

	if err := fetch(ctx, store, name, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	db, err := OpenDB(path)
	if err != nil {
		return err
	}
	if err := fill(db); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return store.Put(ctx, name, data)
}

// fetch copies an existing blob into w. A missing blob leaves w empty.
func fetch(ctx context.Context, store blobstore.BlobStore, name string, w io.Writer) error {
	blob, err := store.Open(ctx, name)
	if errors.Is(err, blobstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	rc, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		blob.Close()
		return err
	}
	defer rc.Close()

	_, err = io.Copy(w, rc)
	return err
}
