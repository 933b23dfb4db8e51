// Package export saves and loads completed benchmark runs as JSON, optionally
// zstd-compressed when the path ends in ".zst".
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/spboyer/parbench/internal/models"
	"github.com/spboyer/parbench/internal/reporting"
)

// FormatVersion is bumped when the document layout changes incompatibly.
const FormatVersion = 1

// CompressedSuffix selects zstd compression.
const CompressedSuffix = ".zst"

// Document is the on-disk form of a completed run.
type Document struct {
	Version    int                   `json:"version"`
	CreatedAt  time.Time             `json:"created_at"`
	Binary     string                `json:"binary,omitempty"`
	Threads    models.ThreadConfig   `json:"threads"`
	Results    *models.ResultSet     `json:"results"`
	Statistics *reporting.Statistics `json:"statistics,omitempty"`
}

// NewDocument wraps a result set for export.
func NewDocument(rs *models.ResultSet, stats *reporting.Statistics, threads models.ThreadConfig, binary string) *Document {
	return &Document{
		Version:    FormatVersion,
		CreatedAt:  time.Now().UTC(),
		Binary:     binary,
		Threads:    threads,
		Results:    rs,
		Statistics: stats,
	}
}

// Write encodes doc to path.
func Write(path string, doc *Document) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing results file: %w", cerr)
		}
	}()

	var w io.Writer = f
	var zw *zstd.Encoder
	if IsCompressed(path) {
		zw, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("creating zstd encoder: %w", err)
		}
		w = zw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		if zw != nil {
			_ = zw.Close()
		}
		return fmt.Errorf("encoding results: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("flushing zstd stream: %w", err)
		}
	}
	return nil
}

// Load reads and validates a document written by Write.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if IsCompressed(path) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding results %s: %w", path, err)
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported results version %d (want %d)", doc.Version, FormatVersion)
	}
	if doc.Results == nil {
		return nil, errors.New("results file has no result set")
	}
	if err := doc.Results.Validate(); err != nil {
		return nil, fmt.Errorf("invalid result set: %w", err)
	}
	return &doc, nil
}

// IsCompressed reports whether path selects zstd compression.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, CompressedSuffix)
}
