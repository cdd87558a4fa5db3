package table

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format is the layout of a table blob.
type Format int

const (
	// FormatCSV is comma separated text with a header row.
	FormatCSV Format = iota
	// FormatTSV is tab separated text with a header row.
	FormatTSV
	// FormatJSON is an indented JSON array of row objects.
	FormatJSON
	// FormatSQLite is a SQLite database file.
	FormatSQLite
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatJSON:
		return "json"
	case FormatSQLite:
		return "sqlite"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Compression is the stream compression wrapped around a text table.
type Compression int

const (
	// CompressionNone stores the table as is.
	CompressionNone Compression = iota
	// CompressionZstd wraps the table in a zstd frame.
	CompressionZstd
	// CompressionLZ4 wraps the table in an LZ4 frame.
	CompressionLZ4
)

// String returns the string representation of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// FormatOf derives the format and compression of a blob from its name,
// e.g. "drugs.csv.zst" is zstd-compressed CSV.
// SQLite databases cannot be compressed.
func FormatOf(name string) (Format, Compression, error) {
	base := strings.ToLower(path.Base(name))

	comp := CompressionNone
	switch {
	case strings.HasSuffix(base, ".zst"):
		comp = CompressionZstd
		base = strings.TrimSuffix(base, ".zst")
	case strings.HasSuffix(base, ".lz4"):
		comp = CompressionLZ4
		base = strings.TrimSuffix(base, ".lz4")
	}

	var f Format
	switch path.Ext(base) {
	case ".csv":
		f = FormatCSV
	case ".tsv":
		f = FormatTSV
	case ".json":
		f = FormatJSON
	case ".db", ".sqlite", ".sqlite3":
		f = FormatSQLite
		if comp != CompressionNone {
			return 0, 0, fmt.Errorf("%w: compressed sqlite %q", ErrUnsupportedFormat, name)
		}
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return f, comp, nil
}

func (f Format) comma() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

func decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// compress wraps w. Closing the returned writer flushes the frame but
// leaves w open.
func compress(w io.Writer, c Compression, zstdLevel int) (io.WriteCloser, error) {
	switch c {
	case CompressionZstd:
		level := zstd.EncoderLevelFromZstd(zstdLevel)
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return enc, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
