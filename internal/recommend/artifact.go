// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"time"
)

// Artifact layout:
//
//	[4]  magic "MMFS"
//	[2]  format version, big endian
//	[32] SHA-256 of the uncompressed gob payload
//	[..] gzip(gob(artifactPayload))
const (
	artifactMagic   = "MMFS"
	artifactVersion = uint16(1)
	headerSize      = 4 + 2 + sha256.Size
)

// artifactPayload is the gob-encoded body. All four fields travel together.
type artifactPayload struct {
	Matrix        [][]float64
	ItemIDs       []string
	Categories    []string
	CategoryIndex map[string]int
	BuiltAt       time.Time
}

// EncodeFeatureSet serializes fs into the versioned artifact format.
func EncodeFeatureSet(fs *FeatureSet) ([]byte, error) {
	if fs == nil {
		return nil, fmt.Errorf("encode feature set: nil set")
	}
	if err := fs.Validate(); err != nil {
		return nil, fmt.Errorf("encode feature set: %w", err)
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(artifactPayload{
		Matrix:        fs.Matrix,
		ItemIDs:       fs.ItemIDs,
		Categories:    fs.Categories,
		CategoryIndex: fs.CategoryIndex,
		BuiltAt:       fs.BuiltAt,
	}); err != nil {
		return nil, fmt.Errorf("encode feature set: %w", err)
	}
	sum := sha256.Sum256(raw.Bytes())

	var out bytes.Buffer
	out.Grow(headerSize + raw.Len()/2)
	out.WriteString(artifactMagic)
	var version [2]byte
	binary.BigEndian.PutUint16(version[:], artifactVersion)
	out.Write(version[:])
	out.Write(sum[:])

	gzw := gzip.NewWriter(&out)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress feature set: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	return out.Bytes(), nil
}

// DecodeFeatureSet parses an artifact produced by EncodeFeatureSet.
// Every failure wraps ErrCorruptArtifact; no partial set is ever returned.
func DecodeFeatureSet(data []byte) (*FeatureSet, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorruptArtifact, len(data))
	}
	if string(data[:4]) != artifactMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorruptArtifact, data[:4])
	}
	if v := binary.BigEndian.Uint16(data[4:6]); v != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptArtifact, v)
	}
	var want [sha256.Size]byte
	copy(want[:], data[6:headerSize])

	gzr, err := gzip.NewReader(bytes.NewReader(data[headerSize:]))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrCorruptArtifact, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close after full read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrCorruptArtifact, err)
	}
	if sha256.Sum256(raw) != want {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptArtifact)
	}

	var p artifactPayload
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrCorruptArtifact, err)
	}

	fs := &FeatureSet{
		Matrix:        p.Matrix,
		ItemIDs:       p.ItemIDs,
		Categories:    p.Categories,
		CategoryIndex: p.CategoryIndex,
		BuiltAt:       p.BuiltAt,
	}
	if fs.CategoryIndex == nil {
		fs.CategoryIndex = map[string]int{}
	}
	if err := fs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}
	return fs, nil
}
