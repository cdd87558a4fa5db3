package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hupe1980/solvmatch/blobstore"
	"github.com/hupe1980/solvmatch/blobstore/minio"
	"github.com/hupe1980/solvmatch/blobstore/s3"
	"github.com/hupe1980/solvmatch/table"
)

// stdinLocation reads a table from standard input.
const stdinLocation = "-"

// stdinStore buffers r in a MemoryStore under a name carrying the format
// (csv, tsv, csv.zst, ...), so the table loaders treat it like any blob.
func stdinStore(r io.Reader, format string) (blobstore.BlobStore, string, error) {
	name := "stdin." + strings.TrimPrefix(format, ".")
	if _, _, err := table.FormatOf(name); err != nil {
		return nil, "", asConfigError(fmt.Errorf("--stdin-format: %w", err))
	}

	store := blobstore.NewMemoryStore()
	if _, err := store.PutFrom(name, r); err != nil {
		return nil, "", fmt.Errorf("read stdin: %w", err)
	}
	return store, name, nil
}

// location is a parsed table URI.
type location struct {
	scheme string // "", "s3" or "minio"
	bucket string
	key    string
}

// parseLocation splits s3://bucket/key and minio://bucket/key URIs.
// Anything else is a local path.
func parseLocation(uri string) (location, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return location{key: uri}, nil
	}

	switch scheme {
	case "s3", "minio":
	case "file":
		return location{key: rest}, nil
	default:
		return location{}, fmt.Errorf("unsupported location scheme %q", scheme)
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return location{}, fmt.Errorf("location %q must be %s://bucket/key", uri, scheme)
	}
	return location{scheme: scheme, bucket: bucket, key: key}, nil
}

// openStore returns the store holding uri and the blob name inside it.
func openStore(ctx context.Context, cfg Config, uri string) (blobstore.BlobStore, string, error) {
	loc, err := parseLocation(uri)
	if err != nil {
		return nil, "", err
	}

	switch loc.scheme {
	case "s3":
		store, err := s3.New(ctx, loc.bucket, func(o *s3.Options) {
			o.Region = cfg.S3.Region
			o.Endpoint = cfg.S3.Endpoint
			o.UsePathStyle = cfg.S3.UsePathStyle
		})
		if err != nil {
			return nil, "", err
		}
		return store, loc.key, nil
	case "minio":
		mc := minioConfig(cfg.MinIO)
		if mc.Endpoint == "" {
			return nil, "", fmt.Errorf("%s: minio endpoint not set (config minio.endpoint or MINIO_ENDPOINT)", uri)
		}
		store, err := minio.New(mc.Endpoint, loc.bucket, func(o *minio.Options) {
			o.AccessKey = mc.AccessKey
			o.SecretKey = mc.SecretKey
			o.Secure = mc.Secure
			o.Region = mc.Region
		})
		if err != nil {
			return nil, "", err
		}
		return store, loc.key, nil
	default:
		dir, name := filepath.Split(filepath.Clean(loc.key))
		if dir == "" {
			dir = "."
		}
		return blobstore.NewLocalStore(dir), name, nil
	}
}

// minioConfig fills empty fields from the environment.
func minioConfig(c MinIOConfig) MinIOConfig {
	if c.Endpoint == "" {
		c.Endpoint = os.Getenv("MINIO_ENDPOINT")
	}
	if c.AccessKey == "" && c.SecretKey == "" {
		c.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
		c.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	}
	if !c.Secure {
		c.Secure, _ = strconv.ParseBool(os.Getenv("MINIO_SECURE"))
	}
	return c
}
