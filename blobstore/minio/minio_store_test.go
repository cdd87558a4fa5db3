package minio

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/solvmatch/blobstore"
)

func TestNew(t *testing.T) {
	store, err := New("localhost:9000", "tables", func(o *Options) {
		o.AccessKey = "minioadmin"
		o.SecretKey = "minioadmin"
		o.Prefix = "hansen/"
	})
	require.NoError(t, err)
	assert.Equal(t, "hansen/solvents.csv", store.key("solvents.csv"))

	_, err = New("", "tables")
	assert.Error(t, err)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	bucket := "test-solvmatch"

	store, err := New("localhost:9000", bucket, func(o *Options) {
		o.AccessKey = "minioadmin"
		o.SecretKey = "minioadmin"
		o.Prefix = "test-prefix/"
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	client := store.client

	// Check if MinIO is reachable
	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("id,name,d_d,d_p,d_h\n0,water,15.5,16,42.3\n")
	require.NoError(t, store.Put(ctx, "solvents.csv", data))

	blob, err := store.Open(ctx, "solvents.csv")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	r, err := blobstore.NewReader(ctx, blob)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	require.NoError(t, r.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "solvents.csv")

	// Streaming write
	wb, err := store.Create(ctx, "report.csv")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	blob2, err := store.Open(ctx, "report.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob2.Size())
	require.NoError(t, blob2.Close())

	require.NoError(t, store.Delete(ctx, "solvents.csv"))
	require.NoError(t, store.Delete(ctx, "report.csv"))

	_, err = store.Open(ctx, "solvents.csv")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}
