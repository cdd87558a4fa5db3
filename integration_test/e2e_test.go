package solvmatch_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/solvmatch"
	"github.com/hupe1980/solvmatch/blobstore"
	"github.com/hupe1980/solvmatch/core"
	"github.com/hupe1980/solvmatch/distance"
	"github.com/hupe1980/solvmatch/model"
	"github.com/hupe1980/solvmatch/table"
	"github.com/hupe1980/solvmatch/testutil"
)

// encodeTable renders records as CSV with the given name header.
func encodeTable(nameHeader string, ids []core.ID, names []string, params []model.Params) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "id,%s,dD,dP,dH\n", nameHeader)
	for i := range ids {
		p := params[i]
		fmt.Fprintf(&buf, "%d,%s,%v,%v,%v\n", ids[i], names[i], p[0], p[1], p[2])
	}
	return buf.Bytes()
}

func solventTable(s []model.Solvent) []byte {
	ids, names, params := make([]core.ID, len(s)), make([]string, len(s)), make([]model.Params, len(s))
	for i, v := range s {
		ids[i], names[i], params[i] = v.ID, v.Name, v.Params
	}
	return encodeTable("solvent", ids, names, params)
}

func compoundTable(c []model.Compound) []byte {
	ids, names, params := make([]core.ID, len(c)), make([]string, len(c)), make([]model.Params, len(c))
	for i, v := range c {
		ids[i], names[i], params[i] = v.ID, v.Name, v.Params
	}
	return encodeTable("drug", ids, names, params)
}

func TestEndToEnd(t *testing.T) {
	const (
		numSolvents  = 20
		numCompounds = 40
		nearest      = 6
		maxResults   = 8
	)

	testCases := []struct {
		name   string
		weight float64
	}{
		{"Euclidean", 1},
		{"Hansen", distance.HansenDispersionWeight},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			rng := testutil.NewRNG(4711)

			solvents := rng.Solvents(numSolvents)
			compounds := rng.Compounds(numCompounds)
			// Sparse, shuffled ids.
			for i, id := range rng.IDs(numSolvents, 1_000_000) {
				solvents[i].ID = id
			}

			// Stage the tables in a local directory.
			dir := t.TempDir()
			store := blobstore.NewLocalStore(dir)
			require.NoError(t, store.Put(ctx, "solvents.csv", solventTable(solvents)))
			require.NoError(t, store.Put(ctx, "drugs.csv", compoundTable(compounds)))

			loadedSolvents, err := table.LoadSolvents(ctx, store, "solvents.csv")
			require.NoError(t, err)
			loadedCompounds, err := table.LoadCompounds(ctx, store, "drugs.csv")
			require.NoError(t, err)
			require.Equal(t, solvents, loadedSolvents)
			require.Equal(t, compounds, loadedCompounds)

			m, err := solvmatch.New(
				solvmatch.WithNearest(nearest),
				solvmatch.WithMaxResults(maxResults),
				solvmatch.WithDispersionWeight(tc.weight),
				solvmatch.WithInitialCapacity(8),
				solvmatch.WithWorkers(4),
			)
			require.NoError(t, err)

			report, err := m.Match(ctx, loadedCompounds, loadedSolvents)
			require.NoError(t, err)
			require.Empty(t, report.Failures)

			space, err := distance.NewSpace(tc.weight)
			require.NoError(t, err)
			want := testutil.BruteForceCounts(compounds, solvents, nearest, space)

			require.Len(t, report.Pairs, maxResults)
			for i, p := range report.Pairs {
				assert.Equal(t, want[p.Pair], p.Count, "pair %d", p.Pair)
				if i > 0 {
					assert.GreaterOrEqual(t, report.Pairs[i-1].Count, p.Count)
				}
			}

			require.Len(t, report.Rows, maxResults)
			for i, row := range report.Rows {
				assert.Equal(t, report.Pairs[i].Pair, row.Pair)
				assert.InDelta(t, 100, row.RatioA+row.RatioB, 1e-9)
				assert.InDelta(t, report.Pairs[i].MinDistance, row.Distance, 1e-12)
			}

			// Every compound keeps exactly the brute-force neighbors.
			for i, cr := range report.PerCompound {
				truth := testutil.BruteForceNearest(compounds[i], solvents, nearest, space)
				require.Len(t, cr.Candidates, nearest)
				for j := range truth {
					assert.Equal(t, truth[j].Pair, cr.Candidates[j].Pair)
					assert.InDelta(t, truth[j].Distance, cr.Candidates[j].Distance, 1e-12)
				}
			}

			// Write everything into one database and read it back.
			require.NoError(t, table.SaveResults(ctx, store, "out/report.db", report.Rows))
			require.NoError(t, table.SavePairs(ctx, store, "out/report.db", report.Pairs))
			neighbors, err := table.Neighbors(report.PerCompound)
			require.NoError(t, err)
			require.NoError(t, table.SaveNeighbors(ctx, store, "out/report.db", neighbors))

			db, err := table.OpenDB(filepath.Join(dir, "out", "report.db"))
			require.NoError(t, err)
			defer db.Close()

			rows, err := db.Results(ctx)
			require.NoError(t, err)
			assert.Equal(t, report.Rows, rows)

			storedNeighbors, err := db.Neighbors(ctx)
			require.NoError(t, err)
			assert.Len(t, storedNeighbors, numCompounds*nearest)
		})
	}
}

func TestEndToEndCompressedOutputs(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(7)
	solvents := rng.Solvents(12)
	compounds := rng.Compounds(10)

	store := blobstore.NewMemoryStore()

	m, err := solvmatch.New(solvmatch.WithNearest(3), solvmatch.WithMaxResults(5))
	require.NoError(t, err)
	report, err := m.Match(ctx, compounds, solvents)
	require.NoError(t, err)

	tests := []struct {
		name  string
		magic []byte
	}{
		{"results.csv.zst", []byte{0x28, 0xb5, 0x2f, 0xfd}},
		{"results.json.lz4", []byte{0x04, 0x22, 0x4d, 0x18}},
		{"results.tsv", []byte("compound\t")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, table.SaveResults(ctx, store, tt.name, report.Rows))
			data, ok := store.Bytes(tt.name)
			require.True(t, ok)
			assert.True(t, bytes.HasPrefix(data, tt.magic))
		})
	}
}

func TestEdgeCases(t *testing.T) {
	ctx := context.Background()

	t.Run("IdenticalSolvents", func(t *testing.T) {
		// Every blend collapses to one point; segments are degenerate.
		solvents := []model.Solvent{
			{ID: 1, Params: model.Params{5, 5, 5}},
			{ID: 2, Params: model.Params{5, 5, 5}},
			{ID: 3, Params: model.Params{5, 5, 5}},
		}
		compounds := []model.Compound{{ID: 1, Params: model.Params{5, 5, 8}}}

		m, err := solvmatch.New(solvmatch.WithNearest(3), solvmatch.WithMaxResults(3))
		require.NoError(t, err)
		report, err := m.Match(ctx, compounds, solvents)
		require.NoError(t, err)

		require.Len(t, report.Pairs, 3)
		for _, row := range report.Rows {
			assert.InDelta(t, 3, row.Distance, 1e-12)
		}
	})

	t.Run("CompoundOnSegment", func(t *testing.T) {
		solvents := []model.Solvent{
			{ID: 0, Name: "a", Params: model.Params{0, 0, 0}},
			{ID: 1, Name: "b", Params: model.Params{10, 10, 10}},
		}
		compounds := []model.Compound{{ID: 0, Name: "c", Params: model.Params{3, 3, 3}}}

		m, err := solvmatch.New(solvmatch.WithNearest(1), solvmatch.WithMaxResults(1))
		require.NoError(t, err)
		report, err := m.Match(ctx, compounds, solvents)
		require.NoError(t, err)

		require.Len(t, report.Rows, 1)
		row := report.Rows[0]
		assert.InDelta(t, 0, row.Distance, 1e-12)
		assert.InDelta(t, 70, row.RatioA, 1e-9)
		assert.InDelta(t, 30, row.RatioB, 1e-9)
	})

	t.Run("NoCompounds", func(t *testing.T) {
		m, err := solvmatch.New()
		require.NoError(t, err)
		report, err := m.Match(ctx, nil, testutil.NewRNG(1).Solvents(4))
		require.NoError(t, err)
		assert.Empty(t, report.Rows)
		assert.Empty(t, report.Pairs)
	})

	t.Run("LocalFileMissing", func(t *testing.T) {
		_, err := table.LoadSolvents(ctx, blobstore.NewLocalStore(t.TempDir()), "solvents.csv")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
