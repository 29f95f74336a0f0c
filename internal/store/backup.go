// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package store

import (
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// maxPendingLoadWrites bounds the write batches in flight during Import.
const maxPendingLoadWrites = 256

// ExportInfo describes a written backup stream.
type ExportInfo struct {
	Version  uint64    `json:"version"`
	Bytes    int64     `json:"bytes"`
	Checksum string    `json:"checksum"`
	TakenAt  time.Time `json:"taken_at"`
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Export writes a gzip-compressed BadgerDB backup of every key to w. The
// checksum is the SHA-256 of the compressed bytes.
func (s *Store) Export(w io.Writer) (info ExportInfo, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ExportInfo{}, ErrClosed
	}

	hasher := sha256.New()
	counter := &countingWriter{w: io.MultiWriter(w, hasher)}

	gz, err := gzip.NewWriterLevel(counter, gzip.BestCompression)
	if err != nil {
		return ExportInfo{}, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	version, err := s.db.Backup(gz, 0)
	if err != nil {
		gz.Close() //nolint:errcheck // Best effort cleanup on error
		return ExportInfo{}, fmt.Errorf("backup BadgerDB: %w", err)
	}
	if err := gz.Close(); err != nil {
		return ExportInfo{}, fmt.Errorf("failed to finish gzip stream: %w", err)
	}

	info = ExportInfo{
		Version:  version,
		Bytes:    counter.n,
		Checksum: hex.EncodeToString(hasher.Sum(nil)),
		TakenAt:  time.Now().UTC(),
	}
	s.logger.Info().
		Uint64("version", info.Version).
		Int64("bytes", info.Bytes).
		Str("checksum", info.Checksum).
		Msg("store exported")
	return info, nil
}

// Import replaces the store contents with a backup written by Export.
func (s *Store) Import(r io.Reader) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("open backup stream: %w", err)
	}
	defer gz.Close() //nolint:errcheck // Reader close only releases buffers

	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	if err := s.db.Load(gz, maxPendingLoadWrites); err != nil {
		return fmt.Errorf("load backup: %w", err)
	}

	s.logger.Info().Msg("store imported")
	return nil
}
